package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"massimino/fitness-platform/internal/domain"
	"massimino/fitness-platform/internal/metrics"
	"massimino/fitness-platform/internal/repository"
	"massimino/fitness-platform/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrCreativeNotFound     = errors.New("creative not found")
	ErrInvalidTransition    = errors.New("invalid campaign status transition")
	ErrCampaignAccessDenied = errors.New("access denied to this campaign")
)

// --- Service Interface ---
type AdsService interface {
	// SelectAdForUser picks one eligible creative for a placement, or nil
	// when nothing qualifies. Selection always records an impression:
	// callers must not select without intending to render.
	SelectAdForUser(ctx context.Context, userID *primitive.ObjectID, placement string, excludeCreativeID *primitive.ObjectID) (*domain.AdCreative, error)

	// RecordImpression / RecordClick bump the creative's and campaign's
	// counters, recompute spend from scratch and re-evaluate auto-pause.
	RecordImpression(ctx context.Context, creativeID primitive.ObjectID) error
	RecordClick(ctx context.Context, creativeID primitive.ObjectID) (clickURL string, err error)

	// Campaign lifecycle
	CreateCampaign(ctx context.Context, campaign *domain.AdCampaign) (*domain.AdCampaign, error)
	ActivateCampaign(ctx context.Context, partnerID, campaignID primitive.ObjectID) error
	PauseCampaign(ctx context.Context, partnerID, campaignID primitive.ObjectID) error
	ResumeCampaign(ctx context.Context, partnerID, campaignID primitive.ObjectID) error
	CompleteCampaign(ctx context.Context, partnerID, campaignID primitive.ObjectID) error
	ArchiveCampaign(ctx context.Context, partnerID, campaignID primitive.ObjectID) error
	GetCampaign(ctx context.Context, campaignID primitive.ObjectID) (*domain.AdCampaign, error)
	ListPartnerCampaigns(ctx context.Context, partnerID primitive.ObjectID) ([]domain.AdCampaign, error)

	// Creatives
	AddCreative(ctx context.Context, partnerID primitive.ObjectID, creative *domain.AdCreative) (*domain.AdCreative, error)
	// GetCreativeAssetUploadURL presigns a PUT for a creative's media asset
	// and returns the URL together with the object key to reference in
	// AddCreative.
	GetCreativeAssetUploadURL(ctx context.Context, partnerID, campaignID primitive.ObjectID, contentType string) (uploadURL, objectKey string, err error)
	ReviewCreative(ctx context.Context, creativeID primitive.ObjectID, approve bool) error
	ListPendingCreatives(ctx context.Context) ([]domain.AdCreative, error)
}

// --- Service Implementation ---

type adsService struct {
	campaignRepo repository.CampaignRepository
	creativeRepo repository.CreativeRepository
	userRepo     repository.UserRepository
	fileStorage  storage.FileStorage
	logger       *slog.Logger

	// Indirections for deterministic tests.
	now  func() time.Time
	pick func(n int) int
}

// NewAdsService creates a new instance of adsService.
func NewAdsService(
	campaignRepo repository.CampaignRepository,
	creativeRepo repository.CreativeRepository,
	userRepo repository.UserRepository,
	fileStorage storage.FileStorage,
	logger *slog.Logger,
) AdsService {
	return &adsService{
		campaignRepo: campaignRepo,
		creativeRepo: creativeRepo,
		userRepo:     userRepo,
		fileStorage:  fileStorage,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
		pick:         rand.Intn,
	}
}

// === Selection ===

// SelectAdForUser filters the candidate pool down and picks uniformly at
// random. Candidates are APPROVED creatives of ACTIVE campaigns whose flight
// window contains now and whose placement list includes the requested
// placement. Targeting dimensions are only applied when the user record is
// found; absent dimensions impose no constraint.
func (s *adsService) SelectAdForUser(ctx context.Context, userID *primitive.ObjectID, placement string, excludeCreativeID *primitive.ObjectID) (*domain.AdCreative, error) {
	campaigns, err := s.campaignRepo.ListByStatus(ctx, domain.CampaignActive)
	if err != nil {
		return nil, err
	}

	var user *domain.User
	if userID != nil {
		u, err := s.userRepo.GetByID(ctx, *userID)
		if err == nil {
			user = u
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		// Unknown user id: serve untargeted, same as anonymous.
	}

	now := s.now()
	eligible := make(map[primitive.ObjectID]bool)
	campaignIDs := make([]primitive.ObjectID, 0, len(campaigns))
	for _, c := range campaigns {
		if !c.FlightContains(now) {
			continue
		}
		if !c.ServesPlacement(placement) {
			continue
		}
		if user != nil && !targetingMatches(c.Targeting, user) {
			continue
		}
		eligible[c.ID] = true
		campaignIDs = append(campaignIDs, c.ID)
	}

	creatives, err := s.creativeRepo.ListApprovedByCampaignIDs(ctx, campaignIDs)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.AdCreative, 0, len(creatives))
	for _, cr := range creatives {
		if !eligible[cr.CampaignID] {
			continue
		}
		if excludeCreativeID != nil && cr.ID == *excludeCreativeID {
			continue
		}
		candidates = append(candidates, cr)
	}

	if len(candidates) == 0 {
		metrics.AdSelectionsTotal.WithLabelValues(placement, metrics.SelectionNoCandidate).Inc()
		return nil, nil
	}

	chosen := candidates[s.pick(len(candidates))]
	metrics.AdSelectionsTotal.WithLabelValues(placement, metrics.SelectionServed).Inc()

	// Select implies impression.
	if err := s.RecordImpression(ctx, chosen.ID); err != nil {
		return nil, err
	}
	return &chosen, nil
}

// targetingMatches checks every targeting dimension present on the campaign
// against the user's attributes. Goals use set-intersection; experience
// level and country are exact matches.
func targetingMatches(t domain.AdTargeting, user *domain.User) bool {
	if len(t.Goals) > 0 {
		if !intersects(t.Goals, user.Goals) {
			return false
		}
	}
	if t.ExperienceLevel != "" && t.ExperienceLevel != user.ExperienceLevel {
		return false
	}
	if t.LocationCountry != "" && t.LocationCountry != user.Country {
		return false
	}
	return true
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// === Counters & Spend ===

// RecordImpression bumps impression counters and recomputes spend.
func (s *adsService) RecordImpression(ctx context.Context, creativeID primitive.ObjectID) error {
	return s.recordEvent(ctx, creativeID, 1, 0, metrics.EventImpression)
}

// RecordClick bumps click counters, recomputes spend and returns the
// creative's click-through URL.
func (s *adsService) RecordClick(ctx context.Context, creativeID primitive.ObjectID) (string, error) {
	creative, err := s.creativeRepo.GetByID(ctx, creativeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrCreativeNotFound
		}
		return "", err
	}
	if err := s.recordEvent(ctx, creativeID, 0, 1, metrics.EventClick); err != nil {
		return "", err
	}
	return creative.ClickURL, nil
}

// recordEvent increments the creative and campaign counters atomically, then
// recomputes spend off the freshly read counters. The recompute is a
// read-then-write; concurrent events can race it, which is accepted since
// spend does not require strict consistency.
func (s *adsService) recordEvent(ctx context.Context, creativeID primitive.ObjectID, impressions, clicks int64, event string) error {
	creative, err := s.creativeRepo.GetByID(ctx, creativeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCreativeNotFound
		}
		return err
	}

	if err := s.creativeRepo.IncrementCounters(ctx, creativeID, impressions, clicks); err != nil {
		return err
	}
	if err := s.campaignRepo.IncrementCounters(ctx, creative.CampaignID, impressions, clicks); err != nil {
		return err
	}
	metrics.AdEventsTotal.WithLabelValues(event).Inc()

	return s.recomputeSpend(ctx, creative.CampaignID)
}

// recomputeSpend derives spend from the campaign's current counters:
// spend = round(impressions * cpm/1000 + clicks * cpc), half-up on the final
// cent. A campaign over budget or past its end date while ACTIVE is paused.
func (s *adsService) recomputeSpend(ctx context.Context, campaignID primitive.ObjectID) error {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCampaignNotFound
		}
		return err
	}

	spend := computeSpendCents(campaign.Impressions, campaign.Clicks, campaign.CPMCents, campaign.CPCCents)
	if err := s.campaignRepo.SetSpend(ctx, campaignID, spend); err != nil {
		return err
	}

	if campaign.Status != domain.CampaignActive {
		return nil
	}
	overBudget := spend >= campaign.BudgetCents
	flightOver := campaign.EndAt != nil && s.now().After(*campaign.EndAt)
	if overBudget || flightOver {
		if err := s.campaignRepo.SetStatus(ctx, campaignID, domain.CampaignPaused); err != nil {
			return err
		}
		metrics.CampaignAutoPausesTotal.Inc()
		s.logger.Info("campaign auto-paused",
			"campaign", campaignID.Hex(), "spend_cents", spend,
			"budget_cents", campaign.BudgetCents, "over_budget", overBudget)
	}
	return nil
}

// computeSpendCents recomputes total spend from raw counters.
func computeSpendCents(impressions, clicks, cpmCents, cpcCents int64) int64 {
	raw := float64(impressions)*float64(cpmCents)/1000.0 + float64(clicks*cpcCents)
	return int64(math.Floor(raw + 0.5))
}

// === Campaign Lifecycle ===

// CreateCampaign inserts a campaign in DRAFT.
func (s *adsService) CreateCampaign(ctx context.Context, campaign *domain.AdCampaign) (*domain.AdCampaign, error) {
	campaign.Status = domain.CampaignDraft
	id, err := s.campaignRepo.Create(ctx, campaign)
	if err != nil {
		return nil, err
	}
	campaign.ID = id
	return campaign, nil
}

func (s *adsService) ActivateCampaign(ctx context.Context, partnerID, campaignID primitive.ObjectID) error {
	return s.transition(ctx, partnerID, campaignID, domain.CampaignActive, domain.CampaignDraft, domain.CampaignPaused)
}

func (s *adsService) PauseCampaign(ctx context.Context, partnerID, campaignID primitive.ObjectID) error {
	return s.transition(ctx, partnerID, campaignID, domain.CampaignPaused, domain.CampaignActive)
}

func (s *adsService) ResumeCampaign(ctx context.Context, partnerID, campaignID primitive.ObjectID) error {
	return s.transition(ctx, partnerID, campaignID, domain.CampaignActive, domain.CampaignPaused)
}

func (s *adsService) CompleteCampaign(ctx context.Context, partnerID, campaignID primitive.ObjectID) error {
	return s.transition(ctx, partnerID, campaignID, domain.CampaignCompleted, domain.CampaignActive, domain.CampaignPaused)
}

func (s *adsService) ArchiveCampaign(ctx context.Context, partnerID, campaignID primitive.ObjectID) error {
	return s.transition(ctx, partnerID, campaignID, domain.CampaignArchived, domain.CampaignPaused, domain.CampaignCompleted)
}

// transition moves a campaign to a new status if its current status is one
// of the allowed predecessors and the caller owns the campaign.
func (s *adsService) transition(ctx context.Context, partnerID, campaignID primitive.ObjectID, to domain.CampaignStatus, from ...domain.CampaignStatus) error {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCampaignNotFound
		}
		return err
	}
	if campaign.PartnerID != partnerID {
		return ErrCampaignAccessDenied
	}

	allowed := false
	for _, f := range from {
		if campaign.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrInvalidTransition
	}
	return s.campaignRepo.SetStatus(ctx, campaignID, to)
}

// GetCampaign retrieves one campaign.
func (s *adsService) GetCampaign(ctx context.Context, campaignID primitive.ObjectID) (*domain.AdCampaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return campaign, nil
}

// ListPartnerCampaigns retrieves a partner's campaigns.
func (s *adsService) ListPartnerCampaigns(ctx context.Context, partnerID primitive.ObjectID) ([]domain.AdCampaign, error) {
	return s.campaignRepo.ListByPartnerID(ctx, partnerID)
}

// === Creatives ===

// AddCreative attaches a new creative to one of the partner's campaigns.
// It enters the review queue as PENDING.
func (s *adsService) AddCreative(ctx context.Context, partnerID primitive.ObjectID, creative *domain.AdCreative) (*domain.AdCreative, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, creative.CampaignID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	if campaign.PartnerID != partnerID {
		return nil, ErrCampaignAccessDenied
	}

	id, err := s.creativeRepo.Create(ctx, creative)
	if err != nil {
		return nil, err
	}
	creative.ID = id
	return creative, nil
}

// GetCreativeAssetUploadURL presigns a direct upload for a creative asset.
// The object key is returned for the partner to attach via AddCreative.
func (s *adsService) GetCreativeAssetUploadURL(ctx context.Context, partnerID, campaignID primitive.ObjectID, contentType string) (string, string, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", ErrCampaignNotFound
		}
		return "", "", err
	}
	if campaign.PartnerID != partnerID {
		return "", "", ErrCampaignAccessDenied
	}

	objectKey := fmt.Sprintf("creatives/%s/%s", campaignID.Hex(), uuid.NewString())
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", err
	}
	return url, objectKey, nil
}

// ReviewCreative resolves a pending creative to APPROVED or REJECTED.
func (s *adsService) ReviewCreative(ctx context.Context, creativeID primitive.ObjectID, approve bool) error {
	status := domain.CreativeRejected
	if approve {
		status = domain.CreativeApproved
	}
	err := s.creativeRepo.SetApprovalStatus(ctx, creativeID, status)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCreativeNotFound
	}
	return err
}

// ListPendingCreatives retrieves the admin review queue.
func (s *adsService) ListPendingCreatives(ctx context.Context) ([]domain.AdCreative, error) {
	return s.creativeRepo.ListByApprovalStatus(ctx, domain.CreativePending)
}
