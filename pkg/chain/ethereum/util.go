// Copyright 2025 Certen Protocol

package ethereum

import "strconv"

func fmtUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
