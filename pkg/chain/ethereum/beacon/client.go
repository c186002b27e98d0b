// Copyright 2025 Certen Protocol
//
// Client talks to an Ethereum Beacon Node's HTTP API. It never signs or
// submits anything; it only observes head state, validators and blocks.

package beacon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultTimeout = 120 * time.Second

// Client is a Beacon Node HTTP client.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets a custom logger for the client.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Beacon Node client rooted at baseURL (e.g.
// "http://localhost:5052").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  log.New(log.Writer(), "[Beacon] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("%w: invalid base url: %v", ErrRequestFailed, err)
	}
	u.Path = u.Path + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NodeError{Status: resp.StatusCode, Body: string(body)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	return nil
}

// CurrentSlot returns the slot of the canonical head block.
func (c *Client) CurrentSlot(ctx context.Context) (uint64, error) {
	var envelope BeaconApiResponse[BeaconBlockHeaderEnvelope]
	if err := c.get(ctx, "/eth/v1/beacon/headers/head", &envelope); err != nil {
		return 0, err
	}
	return parseUint(envelope.Data.Header.Message.Slot)
}

// ValidatorsByEpoch returns the validator set as of the first slot of epoch.
func (c *Client) ValidatorsByEpoch(ctx context.Context, epoch uint64) ([]ValidatorInfo, error) {
	slot := epoch * 32
	var envelope BeaconApiResponse[[]ValidatorInfo]
	path := fmt.Sprintf("/eth/v1/beacon/states/%s/validators", strconv.FormatUint(slot, 10))
	if err := c.get(ctx, path, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// ValidatorByPubkey returns a single validator's info as of the first slot
// of epoch.
func (c *Client) ValidatorByPubkey(ctx context.Context, pubkey string, epoch uint64) (ValidatorInfo, error) {
	slot := epoch * 32
	var envelope BeaconApiResponse[ValidatorInfo]
	path := fmt.Sprintf("/eth/v1/beacon/states/%s/validators/%s", strconv.FormatUint(slot, 10), pubkey)
	if err := c.get(ctx, path, &envelope); err != nil {
		return ValidatorInfo{}, err
	}
	return envelope.Data, nil
}

// BlockBySlot returns the (v2) beacon block at slot.
func (c *Client) BlockBySlot(ctx context.Context, slot uint64) (BeaconBlock, error) {
	return c.blockBySlotStr(ctx, strconv.FormatUint(slot, 10))
}

func (c *Client) blockBySlotStr(ctx context.Context, slotID string) (BeaconBlock, error) {
	var envelope BeaconBlockV2Envelope
	path := fmt.Sprintf("/eth/v2/beacon/blocks/%s", slotID)
	if err := c.get(ctx, path, &envelope); err != nil {
		return BeaconBlock{}, err
	}
	return envelope.Data, nil
}

// Genesis returns the chain's genesis data.
func (c *Client) Genesis(ctx context.Context) (GenesisData, error) {
	var envelope BeaconApiResponse[GenesisData]
	if err := c.get(ctx, "/eth/v1/beacon/genesis", &envelope); err != nil {
		return GenesisData{}, err
	}
	return envelope.Data, nil
}

// GenesisTime returns the genesis time as a unix timestamp.
func (c *Client) GenesisTime(ctx context.Context) (int64, error) {
	g, err := c.Genesis(ctx)
	if err != nil {
		return 0, err
	}
	t, err := strconv.ParseInt(g.GenesisTime, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	return t, nil
}

// GenesisValidatorsRoot returns the chain's genesis validators root.
func (c *Client) GenesisValidatorsRoot(ctx context.Context) (string, error) {
	g, err := c.Genesis(ctx)
	if err != nil {
		return "", err
	}
	return g.GenesisValidatorsRoot, nil
}

// Fork returns the current fork data.
func (c *Client) Fork(ctx context.Context) (ForkData, error) {
	var envelope BeaconApiResponse[ForkData]
	if err := c.get(ctx, "/eth/v1/beacon/states/head/fork", &envelope); err != nil {
		return ForkData{}, err
	}
	return envelope.Data, nil
}

// CurrentForkVersion returns the chain's current fork version.
func (c *Client) CurrentForkVersion(ctx context.Context) (string, error) {
	f, err := c.Fork(ctx)
	if err != nil {
		return "", err
	}
	return f.CurrentVersion, nil
}
