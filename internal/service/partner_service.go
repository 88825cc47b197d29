package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"massimino/fitness-platform/internal/domain"
	"massimino/fitness-platform/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrLeadNotFound    = errors.New("partner lead not found")
	ErrLeadNotPending  = errors.New("partner lead already reviewed")
	ErrPartnerNotFound = errors.New("partner not found")
	ErrInvalidAPIKey   = errors.New("invalid API key")
)

// --- Service Interface ---
type PartnerService interface {
	// Lead pipeline
	SubmitLead(ctx context.Context, lead *domain.PartnerLead) (*domain.PartnerLead, error)
	ListPendingLeads(ctx context.Context) ([]domain.PartnerLead, error)
	// ApproveLead turns a NEW lead into a Partner.
	ApproveLead(ctx context.Context, leadID primitive.ObjectID) (*domain.Partner, error)
	RejectLead(ctx context.Context, leadID primitive.ObjectID) error

	// IssueAPIKey generates a fresh key for the partner. The plaintext is
	// returned exactly once; only its hash is stored. Re-issuing invalidates
	// the previous key.
	IssueAPIKey(ctx context.Context, partnerID primitive.ObjectID) (string, error)
	// AuthenticateAPIKey resolves an API key to its partner.
	AuthenticateAPIKey(ctx context.Context, apiKey string) (*domain.Partner, error)

	// Gym integrations
	RegisterGym(ctx context.Context, partnerID primitive.ObjectID, gym *domain.GymIntegration) (*domain.GymIntegration, error)
	ListGyms(ctx context.Context, partnerID primitive.ObjectID) ([]domain.GymIntegration, error)
}

// --- Service Implementation ---

type partnerService struct {
	partnerRepo repository.PartnerRepository
	logger      *slog.Logger
}

// NewPartnerService creates a new instance of partnerService.
func NewPartnerService(partnerRepo repository.PartnerRepository, logger *slog.Logger) PartnerService {
	return &partnerService{partnerRepo: partnerRepo, logger: logger}
}

// SubmitLead records an inbound partnership inquiry in NEW status.
func (s *partnerService) SubmitLead(ctx context.Context, lead *domain.PartnerLead) (*domain.PartnerLead, error) {
	now := time.Now().UTC()
	lead.Status = domain.LeadNew
	lead.CreatedAt = now
	lead.UpdatedAt = now

	id, err := s.partnerRepo.CreateLead(ctx, lead)
	if err != nil {
		return nil, err
	}
	lead.ID = id

	s.logger.Info("partner lead submitted", "lead", id.Hex(), "company", lead.CompanyName)
	return lead, nil
}

// ListPendingLeads retrieves leads awaiting review.
func (s *partnerService) ListPendingLeads(ctx context.Context) ([]domain.PartnerLead, error) {
	return s.partnerRepo.ListLeadsByStatus(ctx, domain.LeadNew)
}

// ApproveLead promotes a NEW lead to a Partner record. The partner starts
// without an API key; issuance is a separate step.
func (s *partnerService) ApproveLead(ctx context.Context, leadID primitive.ObjectID) (*domain.Partner, error) {
	lead, err := s.pendingLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if err := s.partnerRepo.SetLeadStatus(ctx, leadID, domain.LeadApproved); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	partner := &domain.Partner{
		LeadID:       lead.ID,
		CompanyName:  lead.CompanyName,
		ContactEmail: lead.ContactEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	id, err := s.partnerRepo.CreatePartner(ctx, partner)
	if err != nil {
		return nil, err
	}
	partner.ID = id

	s.logger.Info("partner lead approved", "lead", leadID.Hex(), "partner", id.Hex())
	return partner, nil
}

// RejectLead declines a NEW lead.
func (s *partnerService) RejectLead(ctx context.Context, leadID primitive.ObjectID) error {
	if _, err := s.pendingLead(ctx, leadID); err != nil {
		return err
	}
	return s.partnerRepo.SetLeadStatus(ctx, leadID, domain.LeadRejected)
}

func (s *partnerService) pendingLead(ctx context.Context, leadID primitive.ObjectID) (*domain.PartnerLead, error) {
	lead, err := s.partnerRepo.GetLeadByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	if lead.Status != domain.LeadNew {
		return nil, ErrLeadNotPending
	}
	return lead, nil
}

// IssueAPIKey mints a new key and stores only its hash.
func (s *partnerService) IssueAPIKey(ctx context.Context, partnerID primitive.ObjectID) (string, error) {
	if _, err := s.partnerRepo.GetPartnerByID(ctx, partnerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrPartnerNotFound
		}
		return "", err
	}

	key := fmt.Sprintf("mk_%s%s", uuid.NewString(), uuid.NewString())
	if err := s.partnerRepo.SetAPIKeyHash(ctx, partnerID, hashAPIKey(key)); err != nil {
		return "", err
	}

	s.logger.Info("partner API key issued", "partner", partnerID.Hex())
	return key, nil
}

// AuthenticateAPIKey looks the key's hash up. Unknown keys are rejected
// without distinguishing missing from revoked.
func (s *partnerService) AuthenticateAPIKey(ctx context.Context, apiKey string) (*domain.Partner, error) {
	if apiKey == "" {
		return nil, ErrInvalidAPIKey
	}
	partner, err := s.partnerRepo.GetPartnerByAPIKeyHash(ctx, hashAPIKey(apiKey))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, err
	}
	return partner, nil
}

// RegisterGym connects a partner-operated gym.
func (s *partnerService) RegisterGym(ctx context.Context, partnerID primitive.ObjectID, gym *domain.GymIntegration) (*domain.GymIntegration, error) {
	gym.PartnerID = partnerID
	gym.IsActive = true
	gym.CreatedAt = time.Now().UTC()

	id, err := s.partnerRepo.CreateGymIntegration(ctx, gym)
	if err != nil {
		return nil, err
	}
	gym.ID = id
	return gym, nil
}

// ListGyms retrieves a partner's gym integrations.
func (s *partnerService) ListGyms(ctx context.Context, partnerID primitive.ObjectID) ([]domain.GymIntegration, error) {
	return s.partnerRepo.ListGymIntegrationsByPartner(ctx, partnerID)
}

// hashAPIKey is the stored form of an API key. A deterministic digest keeps
// lookup a single indexed query.
func hashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
