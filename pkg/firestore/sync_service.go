// Copyright 2025 Certen Protocol
//
// Firestore Sync Service
// Pushes certification pipeline events to Firestore for real-time UI updates:
// an open message opening, single signatures landing, the stake threshold
// being reached, and the resulting certificate/artifact being published.

package firestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Pipeline stages, in the order a signed entity moves through them.
type Stage int

const (
	StageOpenMessageCreated Stage = iota
	StageSignatureRegistered
	StageThresholdReached
	StageCertificateCreated
	StageArtifactPublished
)

// StageNames maps a Stage to its human-readable label.
var StageNames = map[Stage]string{
	StageOpenMessageCreated:  "open_message_created",
	StageSignatureRegistered: "signature_registered",
	StageThresholdReached:    "threshold_reached",
	StageCertificateCreated:  "certificate_created",
	StageArtifactPublished:   "artifact_published",
}

// Status values for a StatusSnapshot.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// StatusSnapshot is one point-in-time record of a signed entity's certification progress.
type StatusSnapshot struct {
	SnapshotID         string
	Stage              Stage
	StageName          string
	Status             string
	Timestamp          time.Time
	Epoch              uint64
	Source             string
	Data               map[string]interface{}
	PreviousSnapshotID string
	SnapshotHash       string
	ErrorMessage       string
	ErrorCode          string
}

// AuditTrailEntry is one hash-chained entry in a chain's audit trail.
type AuditTrailEntry struct {
	EntryID          string
	OpenMessageID    string
	SignedEntityType string
	Epoch            uint64
	Phase            string
	Action           string
	Actor            string
	ActorType        string
	Timestamp        time.Time
	PreviousHash     string
	EntryHash        string
	Details          map[string]interface{}
}

// OpenMessageUpdate carries partial updates to an open-message document.
type OpenMessageUpdate struct {
	Status        string
	SignerCount   *int
	AchievedStake *uint64
	LastUpdated   *time.Time
	CertificateID string
	IsCertified   *bool
	IsExpired     *bool
	Error         string
}

// SyncService syncs certification pipeline events to Firestore.
type SyncService struct {
	client       *Client
	aggregatorID string
	logger       *log.Logger

	// Audit hash chain state, one chain per ChainId.
	auditChains   map[string]string
	auditChainsMu sync.RWMutex
}

// SyncServiceConfig holds configuration for the sync service.
type SyncServiceConfig struct {
	Client       *Client
	AggregatorID string
	Logger       *log.Logger
}

// NewSyncService creates a new Firestore sync service.
func NewSyncService(cfg *SyncServiceConfig) (*SyncService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("firestore client is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.Writer(), "[FirestoreSync] ", log.LstdFlags)
	}

	return &SyncService{
		client:       cfg.Client,
		aggregatorID: cfg.AggregatorID,
		logger:       cfg.Logger,
		auditChains:  make(map[string]string),
	}, nil
}

// IsEnabled returns whether the sync service is enabled.
func (s *SyncService) IsEnabled() bool {
	return s.client != nil && s.client.IsEnabled()
}

// ========================================================================================
// Open message lifecycle
// ========================================================================================

// OpenMessageCreatedEvent contains data for the open-message-created event.
type OpenMessageCreatedEvent struct {
	ChainID          string
	OpenMessageID    string
	SignedEntityType string
	Epoch            uint64
}

// OnOpenMessageCreated is called when the signable builder opens a new message for signing.
func (s *SyncService) OnOpenMessageCreated(ctx context.Context, data *OpenMessageCreatedEvent) error {
	if !s.IsEnabled() {
		return nil
	}

	snapshot := &StatusSnapshot{
		Stage:     StageOpenMessageCreated,
		StageName: StageNames[StageOpenMessageCreated],
		Status:    StatusInProgress,
		Timestamp: time.Now(),
		Epoch:     data.Epoch,
		Source:    "aggregator",
		Data: map[string]interface{}{
			"openMessageId":    data.OpenMessageID,
			"signedEntityType": data.SignedEntityType,
		},
	}
	if prev, err := s.client.GetLatestStatusSnapshot(ctx, data.ChainID, data.SignedEntityType); err == nil && prev != nil {
		snapshot.PreviousSnapshotID = prev.SnapshotID
	}
	snapshot.SnapshotHash = s.computeSnapshotHash(snapshot)

	if err := s.client.CreateStatusSnapshot(ctx, data.ChainID, data.SignedEntityType, snapshot); err != nil {
		return fmt.Errorf("failed to create open-message-created snapshot: %w", err)
	}

	status := "open"
	if err := s.client.UpdateOpenMessage(ctx, data.ChainID, data.OpenMessageID, &OpenMessageUpdate{
		Status:      status,
		LastUpdated: timePtr(time.Now()),
	}); err != nil {
		s.logger.Printf("warning: failed to initialize open-message doc: %v", err)
	}

	return s.appendAudit(ctx, data.ChainID, data.OpenMessageID, data.SignedEntityType, data.Epoch,
		"opened", "Open message created", map[string]interface{}{"epoch": data.Epoch})
}

// ========================================================================================
// Single signature registration
// ========================================================================================

// SignatureRegisteredEvent contains data for a single-signature registration.
type SignatureRegisteredEvent struct {
	ChainID          string
	OpenMessageID    string
	SignedEntityType string
	Epoch            uint64
	SignerID         string
	SignerCount      int
	AchievedStake    uint64
}

// OnSignatureRegistered is called each time the registration service admits a single signature.
func (s *SyncService) OnSignatureRegistered(ctx context.Context, data *SignatureRegisteredEvent) error {
	if !s.IsEnabled() {
		return nil
	}

	snapshot := &StatusSnapshot{
		Stage:     StageSignatureRegistered,
		StageName: StageNames[StageSignatureRegistered],
		Status:    StatusInProgress,
		Timestamp: time.Now(),
		Epoch:     data.Epoch,
		Source:    "aggregator",
		Data: map[string]interface{}{
			"openMessageId": data.OpenMessageID,
			"signerId":      data.SignerID,
			"signerCount":   data.SignerCount,
			"achievedStake": data.AchievedStake,
		},
	}
	if prev, err := s.client.GetLatestStatusSnapshot(ctx, data.ChainID, data.SignedEntityType); err == nil && prev != nil {
		snapshot.PreviousSnapshotID = prev.SnapshotID
	}
	snapshot.SnapshotHash = s.computeSnapshotHash(snapshot)

	if err := s.client.CreateStatusSnapshot(ctx, data.ChainID, data.SignedEntityType, snapshot); err != nil {
		return fmt.Errorf("failed to create signature-registered snapshot: %w", err)
	}

	signerCount := data.SignerCount
	achieved := data.AchievedStake
	if err := s.client.UpdateOpenMessage(ctx, data.ChainID, data.OpenMessageID, &OpenMessageUpdate{
		SignerCount:   &signerCount,
		AchievedStake: &achieved,
		LastUpdated:   timePtr(time.Now()),
	}); err != nil {
		s.logger.Printf("warning: failed to update open message with signer count: %v", err)
	}

	return nil
}

// ========================================================================================
// Threshold reached / certificate created
// ========================================================================================

// ThresholdReachedEvent contains data for the stake-threshold-reached event.
type ThresholdReachedEvent struct {
	ChainID          string
	OpenMessageID    string
	SignedEntityType string
	Epoch            uint64
	AchievedStake    uint64
	TotalStake       uint64
}

// OnThresholdReached is called when the external aggregation gate accepts the open message.
func (s *SyncService) OnThresholdReached(ctx context.Context, data *ThresholdReachedEvent) error {
	if !s.IsEnabled() {
		return nil
	}

	snapshot := &StatusSnapshot{
		Stage:     StageThresholdReached,
		StageName: StageNames[StageThresholdReached],
		Status:    StatusCompleted,
		Timestamp: time.Now(),
		Epoch:     data.Epoch,
		Source:    "aggregator",
		Data: map[string]interface{}{
			"openMessageId": data.OpenMessageID,
			"achievedStake": data.AchievedStake,
			"totalStake":    data.TotalStake,
		},
	}
	if prev, err := s.client.GetLatestStatusSnapshot(ctx, data.ChainID, data.SignedEntityType); err == nil && prev != nil {
		snapshot.PreviousSnapshotID = prev.SnapshotID
	}
	snapshot.SnapshotHash = s.computeSnapshotHash(snapshot)

	if err := s.client.CreateStatusSnapshot(ctx, data.ChainID, data.SignedEntityType, snapshot); err != nil {
		return fmt.Errorf("failed to create threshold-reached snapshot: %w", err)
	}

	return s.appendAudit(ctx, data.ChainID, data.OpenMessageID, data.SignedEntityType, data.Epoch,
		"threshold_reached", fmt.Sprintf("Stake threshold reached (%d/%d)", data.AchievedStake, data.TotalStake),
		map[string]interface{}{"achievedStake": data.AchievedStake, "totalStake": data.TotalStake})
}

// CertificateCreatedEvent contains data for the certificate-created event.
type CertificateCreatedEvent struct {
	ChainID          string
	OpenMessageID    string
	SignedEntityType string
	Epoch            uint64
	CertificateID    string
}

// OnCertificateCreated is called once the certificate is persisted in the relational store.
func (s *SyncService) OnCertificateCreated(ctx context.Context, data *CertificateCreatedEvent) error {
	if !s.IsEnabled() {
		return nil
	}

	snapshot := &StatusSnapshot{
		Stage:     StageCertificateCreated,
		StageName: StageNames[StageCertificateCreated],
		Status:    StatusCompleted,
		Timestamp: time.Now(),
		Epoch:     data.Epoch,
		Source:    "aggregator",
		Data: map[string]interface{}{
			"openMessageId": data.OpenMessageID,
			"certificateId": data.CertificateID,
		},
	}
	if prev, err := s.client.GetLatestStatusSnapshot(ctx, data.ChainID, data.SignedEntityType); err == nil && prev != nil {
		snapshot.PreviousSnapshotID = prev.SnapshotID
	}
	snapshot.SnapshotHash = s.computeSnapshotHash(snapshot)

	if err := s.client.CreateStatusSnapshot(ctx, data.ChainID, data.SignedEntityType, snapshot); err != nil {
		return fmt.Errorf("failed to create certificate-created snapshot: %w", err)
	}

	isCertified := true
	if err := s.client.UpdateOpenMessage(ctx, data.ChainID, data.OpenMessageID, &OpenMessageUpdate{
		Status:        "certified",
		CertificateID: data.CertificateID,
		IsCertified:   &isCertified,
		LastUpdated:   timePtr(time.Now()),
	}); err != nil {
		s.logger.Printf("warning: failed to mark open message certified: %v", err)
	}

	return s.appendAudit(ctx, data.ChainID, data.OpenMessageID, data.SignedEntityType, data.Epoch,
		"certified", fmt.Sprintf("Certificate %s created", data.CertificateID),
		map[string]interface{}{"certificateId": data.CertificateID})
}

// ========================================================================================
// Artifact publication
// ========================================================================================

// ArtifactPublishedEvent contains data for the artifact-published event.
type ArtifactPublishedEvent struct {
	ChainID          string
	OpenMessageID    string
	SignedEntityType string
	Epoch            uint64
	CertificateID    string
	ArtifactHash     string
}

// OnArtifactPublished is called once the per-chain artifact has been built.
func (s *SyncService) OnArtifactPublished(ctx context.Context, data *ArtifactPublishedEvent) error {
	if !s.IsEnabled() {
		return nil
	}

	snapshot := &StatusSnapshot{
		Stage:     StageArtifactPublished,
		StageName: StageNames[StageArtifactPublished],
		Status:    StatusCompleted,
		Timestamp: time.Now(),
		Epoch:     data.Epoch,
		Source:    "aggregator",
		Data: map[string]interface{}{
			"openMessageId": data.OpenMessageID,
			"certificateId": data.CertificateID,
			"artifactHash":  data.ArtifactHash,
		},
	}
	if prev, err := s.client.GetLatestStatusSnapshot(ctx, data.ChainID, data.SignedEntityType); err == nil && prev != nil {
		snapshot.PreviousSnapshotID = prev.SnapshotID
	}
	snapshot.SnapshotHash = s.computeSnapshotHash(snapshot)

	if err := s.client.CreateStatusSnapshot(ctx, data.ChainID, data.SignedEntityType, snapshot); err != nil {
		return fmt.Errorf("failed to create artifact-published snapshot: %w", err)
	}

	return nil
}

// ========================================================================================
// Open message expiry (failure path)
// ========================================================================================

// OpenMessageExpiredEvent contains data for an open message that expired before certification.
type OpenMessageExpiredEvent struct {
	ChainID          string
	OpenMessageID    string
	SignedEntityType string
	Epoch            uint64
}

// OnOpenMessageExpired is called when an open message times out without reaching threshold.
func (s *SyncService) OnOpenMessageExpired(ctx context.Context, data *OpenMessageExpiredEvent) error {
	if !s.IsEnabled() {
		return nil
	}

	isExpired := true
	if err := s.client.UpdateOpenMessage(ctx, data.ChainID, data.OpenMessageID, &OpenMessageUpdate{
		Status:      "expired",
		IsExpired:   &isExpired,
		LastUpdated: timePtr(time.Now()),
	}); err != nil {
		s.logger.Printf("warning: failed to mark open message expired: %v", err)
	}

	return s.appendAudit(ctx, data.ChainID, data.OpenMessageID, data.SignedEntityType, data.Epoch,
		"expired", "Open message expired before reaching stake threshold", nil)
}

// ========================================================================================
// Helpers
// ========================================================================================

// appendAudit appends a hash-chained audit entry for the given chain.
func (s *SyncService) appendAudit(ctx context.Context, chainID, openMessageID, signedEntityType string, epoch uint64, phase, action string, details map[string]interface{}) error {
	previousHash := ""
	s.auditChainsMu.RLock()
	if hash, ok := s.auditChains[chainID]; ok {
		previousHash = hash
	}
	s.auditChainsMu.RUnlock()

	if previousHash == "" {
		if prev, err := s.client.GetLatestAuditEntry(ctx, chainID); err == nil && prev != nil {
			previousHash = prev.EntryHash
		}
	}

	entry := &AuditTrailEntry{
		EntryID:          uuid.New().String(),
		OpenMessageID:    openMessageID,
		SignedEntityType: signedEntityType,
		Epoch:            epoch,
		Phase:            phase,
		Action:           action,
		Actor:            fmt.Sprintf("aggregator-%s", s.aggregatorID),
		ActorType:        "service",
		Timestamp:        time.Now(),
		PreviousHash:     previousHash,
		Details:          details,
	}
	entry.EntryHash = s.computeAuditHash(entry)

	if err := s.client.CreateAuditEntry(ctx, chainID, entry); err != nil {
		return err
	}

	s.auditChainsMu.Lock()
	s.auditChains[chainID] = entry.EntryHash
	s.auditChainsMu.Unlock()

	return nil
}

func (s *SyncService) computeSnapshotHash(snapshot *StatusSnapshot) string {
	data := map[string]interface{}{
		"stage":              snapshot.Stage,
		"stageName":          snapshot.StageName,
		"status":             snapshot.Status,
		"timestamp":          snapshot.Timestamp.Unix(),
		"epoch":              snapshot.Epoch,
		"data":               snapshot.Data,
		"previousSnapshotId": snapshot.PreviousSnapshotID,
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(hash[:])
}

func (s *SyncService) computeAuditHash(entry *AuditTrailEntry) string {
	data := map[string]interface{}{
		"openMessageId": entry.OpenMessageID,
		"phase":         entry.Phase,
		"action":        entry.Action,
		"actor":         entry.Actor,
		"timestamp":     entry.Timestamp.Unix(),
		"previousHash":  entry.PreviousHash,
		"details":       entry.Details,
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(hash[:])
}

func timePtr(t time.Time) *time.Time { return &t }
