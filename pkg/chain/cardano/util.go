// Copyright 2025 Certen Protocol

package cardano

import "strconv"

func fmtUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
