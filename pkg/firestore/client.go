// Copyright 2025 Certen Protocol
//
// Firestore Client
// Firebase Admin SDK client for syncing certification pipeline events to Firestore,
// giving UIs a real-time view of open messages, signature registrations, and
// certificates as they happen, without polling the aggregator's SQL store.

package firestore

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	gcpfirestore "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Client wraps the Firestore client with certification-sync functionality.
type Client struct {
	app       *firebase.App
	firestore *gcpfirestore.Client
	projectID string
	logger    *log.Logger
	enabled   bool
	mu        sync.RWMutex
}

// ClientConfig holds configuration for the Firestore client.
type ClientConfig struct {
	// ProjectID is the Firebase/GCP project ID.
	ProjectID string

	// CredentialsFile is the path to the service account JSON file.
	// If empty, uses GOOGLE_APPLICATION_CREDENTIALS environment variable.
	CredentialsFile string

	// Enabled controls whether Firestore operations are actually performed.
	// If false, all operations are no-ops (useful for local development and tests).
	Enabled bool

	// Logger for client operations.
	Logger *log.Logger
}

// DefaultConfig returns a ClientConfig with values from environment variables.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		Enabled:         getEnvBool("FIRESTORE_ENABLED", false),
		Logger:          log.New(os.Stdout, "[Firestore] ", log.LstdFlags),
	}
}

// NewClient creates a new Firestore client.
func NewClient(ctx context.Context, cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stdout, "[Firestore] ", log.LstdFlags)
	}

	client := &Client{
		projectID: cfg.ProjectID,
		logger:    cfg.Logger,
		enabled:   cfg.Enabled,
	}

	if !cfg.Enabled {
		cfg.Logger.Println("Firestore sync is DISABLED - running in no-op mode")
		return client, nil
	}

	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required when Firestore is enabled")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	// Without a credentials file, the SDK falls back to GOOGLE_APPLICATION_CREDENTIALS
	// or application default credentials (useful in GCP environments).

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	client.app = app
	client.firestore = firestoreClient

	cfg.Logger.Printf("Firestore client initialized for project: %s", cfg.ProjectID)
	return client, nil
}

// Close closes the Firestore client.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.firestore != nil {
		return c.firestore.Close()
	}
	return nil
}

// IsEnabled returns whether Firestore sync is enabled.
func (c *Client) IsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// Collection returns a reference to a Firestore collection.
func (c *Client) Collection(path string) *gcpfirestore.CollectionRef {
	if !c.IsEnabled() || c.firestore == nil {
		return nil
	}
	return c.firestore.Collection(path)
}

// Doc returns a reference to a Firestore document.
func (c *Client) Doc(path string) *gcpfirestore.DocumentRef {
	if !c.IsEnabled() || c.firestore == nil {
		return nil
	}
	return c.firestore.Doc(path)
}

// CreateStatusSnapshot creates a new pipeline-stage snapshot in Firestore.
// Path: /chains/{chainID}/signedEntities/{signedEntityType}/statusSnapshots/{snapshotID}
func (c *Client) CreateStatusSnapshot(ctx context.Context, chainID, signedEntityType string, snapshot *StatusSnapshot) error {
	if !c.IsEnabled() {
		c.logger.Printf("Firestore disabled - skipping status snapshot for chain=%s entity=%s stage=%d",
			chainID, signedEntityType, snapshot.Stage)
		return nil
	}

	if c.firestore == nil {
		return fmt.Errorf("firestore client not initialized")
	}

	if snapshot.SnapshotID == "" {
		snapshot.SnapshotID = fmt.Sprintf("stage%d_%d", snapshot.Stage, time.Now().UnixNano())
	}

	docPath := fmt.Sprintf("chains/%s/signedEntities/%s/statusSnapshots/%s",
		chainID, signedEntityType, snapshot.SnapshotID)

	_, err := c.firestore.Doc(docPath).Set(ctx, map[string]interface{}{
		"stage":              snapshot.Stage,
		"stageName":          snapshot.StageName,
		"status":             snapshot.Status,
		"timestamp":          snapshot.Timestamp,
		"epoch":              snapshot.Epoch,
		"source":             snapshot.Source,
		"data":               snapshot.Data,
		"previousSnapshotId": snapshot.PreviousSnapshotID,
		"snapshotHash":       snapshot.SnapshotHash,
		"errorMessage":       snapshot.ErrorMessage,
		"errorCode":          snapshot.ErrorCode,
	})
	if err != nil {
		c.logger.Printf("failed to create status snapshot: %v", err)
		return fmt.Errorf("failed to create status snapshot: %w", err)
	}

	c.logger.Printf("created status snapshot: chain=%s entity=%s stage=%d status=%s",
		chainID, signedEntityType, snapshot.Stage, snapshot.Status)
	return nil
}

// CreateAuditEntry creates a new audit trail entry in Firestore.
// Path: /chains/{chainID}/auditTrail/{entryID}
func (c *Client) CreateAuditEntry(ctx context.Context, chainID string, entry *AuditTrailEntry) error {
	if !c.IsEnabled() {
		c.logger.Printf("Firestore disabled - skipping audit entry for chain=%s phase=%s", chainID, entry.Phase)
		return nil
	}

	if c.firestore == nil {
		return fmt.Errorf("firestore client not initialized")
	}

	if entry.EntryID == "" {
		entry.EntryID = fmt.Sprintf("%s_%d", entry.Phase, time.Now().UnixNano())
	}

	docPath := fmt.Sprintf("chains/%s/auditTrail/%s", chainID, entry.EntryID)

	_, err := c.firestore.Doc(docPath).Set(ctx, map[string]interface{}{
		"openMessageId":    entry.OpenMessageID,
		"signedEntityType": entry.SignedEntityType,
		"epoch":            entry.Epoch,
		"phase":            entry.Phase,
		"action":           entry.Action,
		"actor":            entry.Actor,
		"actorType":        entry.ActorType,
		"timestamp":        entry.Timestamp,
		"previousHash":     entry.PreviousHash,
		"entryHash":        entry.EntryHash,
		"details":          entry.Details,
	})
	if err != nil {
		c.logger.Printf("failed to create audit entry: %v", err)
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	c.logger.Printf("created audit entry: chain=%s phase=%s action=%s", chainID, entry.Phase, entry.Action)
	return nil
}

// UpdateOpenMessage updates fields on an open-message document.
// Path: /chains/{chainID}/openMessages/{openMessageID}
func (c *Client) UpdateOpenMessage(ctx context.Context, chainID, openMessageID string, update *OpenMessageUpdate) error {
	if !c.IsEnabled() {
		c.logger.Printf("Firestore disabled - skipping open-message update for chain=%s message=%s", chainID, openMessageID)
		return nil
	}

	if c.firestore == nil {
		return fmt.Errorf("firestore client not initialized")
	}

	docPath := fmt.Sprintf("chains/%s/openMessages/%s", chainID, openMessageID)

	updates := make(map[string]interface{})
	if update.Status != "" {
		updates["status"] = update.Status
	}
	if update.SignerCount != nil {
		updates["signerCount"] = *update.SignerCount
	}
	if update.AchievedStake != nil {
		updates["achievedStake"] = *update.AchievedStake
	}
	if update.LastUpdated != nil {
		updates["lastUpdated"] = *update.LastUpdated
	}
	if update.CertificateID != "" {
		updates["certificateId"] = update.CertificateID
	}
	if update.IsCertified != nil {
		updates["isCertified"] = *update.IsCertified
	}
	if update.IsExpired != nil {
		updates["isExpired"] = *update.IsExpired
	}
	if update.Error != "" {
		updates["error"] = update.Error
	}

	if len(updates) == 0 {
		return nil
	}

	_, err := c.firestore.Doc(docPath).Set(ctx, updates, gcpfirestore.MergeAll)
	if err != nil {
		c.logger.Printf("failed to update open message: %v", err)
		return fmt.Errorf("failed to update open message: %w", err)
	}

	c.logger.Printf("updated open message: chain=%s message=%s fields=%d", chainID, openMessageID, len(updates))
	return nil
}

// GetLatestAuditEntry retrieves the most recent audit entry for a chain.
// Used for computing previousHash in the per-chain audit hash chain.
func (c *Client) GetLatestAuditEntry(ctx context.Context, chainID string) (*AuditTrailEntry, error) {
	if !c.IsEnabled() || c.firestore == nil {
		return nil, nil
	}

	collPath := fmt.Sprintf("chains/%s/auditTrail", chainID)
	query := c.firestore.Collection(collPath).OrderBy("timestamp", gcpfirestore.Desc).Limit(1)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query audit trail: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	var entry AuditTrailEntry
	if err := docs[0].DataTo(&entry); err != nil {
		return nil, fmt.Errorf("failed to parse audit entry: %w", err)
	}
	entry.EntryID = docs[0].Ref.ID
	return &entry, nil
}

// GetLatestStatusSnapshot retrieves the most recent status snapshot for a (chain, signed entity) pair.
// Used for computing previousSnapshotId in the snapshot chain.
func (c *Client) GetLatestStatusSnapshot(ctx context.Context, chainID, signedEntityType string) (*StatusSnapshot, error) {
	if !c.IsEnabled() || c.firestore == nil {
		return nil, nil
	}

	collPath := fmt.Sprintf("chains/%s/signedEntities/%s/statusSnapshots", chainID, signedEntityType)
	query := c.firestore.Collection(collPath).OrderBy("timestamp", gcpfirestore.Desc).Limit(1)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query status snapshots: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	var snapshot StatusSnapshot
	if err := docs[0].DataTo(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse status snapshot: %w", err)
	}
	snapshot.SnapshotID = docs[0].Ref.ID
	return &snapshot, nil
}

// Batch creates a new Firestore batch for atomic writes.
func (c *Client) Batch() *gcpfirestore.WriteBatch {
	if !c.IsEnabled() || c.firestore == nil {
		return nil
	}
	return c.firestore.Batch()
}

// RunTransaction runs a Firestore transaction.
func (c *Client) RunTransaction(ctx context.Context, f func(context.Context, *gcpfirestore.Transaction) error) error {
	if !c.IsEnabled() || c.firestore == nil {
		return nil
	}
	return c.firestore.RunTransaction(ctx, f)
}

// Health checks if the Firestore connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	if !c.IsEnabled() {
		return nil
	}
	if c.firestore == nil {
		return fmt.Errorf("firestore client not initialized")
	}

	// A read on a throwaway document proves connectivity; NotFound is the expected outcome.
	_, err := c.firestore.Collection("_health_check").Doc("ping").Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("firestore health check failed: %w", err)
	}
	return nil
}

func getEnvBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val == "true" || val == "1" || val == "yes"
}
