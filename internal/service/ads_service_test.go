package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"massimino/fitness-platform/internal/domain"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var adsNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type adsFixture struct {
	svc          *adsService
	campaignRepo *fakeCampaignRepo
	creativeRepo *fakeCreativeRepo
	userRepo     *fakeUserRepo
}

func newAdsFixture(t *testing.T) *adsFixture {
	t.Helper()
	f := &adsFixture{
		campaignRepo: newFakeCampaignRepo(),
		creativeRepo: newFakeCreativeRepo(),
		userRepo:     newFakeUserRepo(),
	}
	svc := NewAdsService(f.campaignRepo, f.creativeRepo, f.userRepo, &fakeFileStorage{}, testLogger()).(*adsService)
	svc.now = func() time.Time { return adsNow }
	svc.pick = func(int) int { return 0 }
	f.svc = svc
	return f
}

// addCampaign inserts a campaign with an approved creative and returns both ids.
func (f *adsFixture) addCampaign(c domain.AdCampaign) (primitive.ObjectID, primitive.ObjectID) {
	if c.Status == "" {
		c.Status = domain.CampaignActive
	}
	if c.Placements == nil {
		c.Placements = []string{"home_feed"}
	}
	if c.BudgetCents == 0 {
		c.BudgetCents = 1_000_000
	}
	campaignID := f.campaignRepo.add(c)
	creativeID := f.creativeRepo.add(domain.AdCreative{
		CampaignID:     campaignID,
		Title:          c.Name,
		ClickURL:       "https://partner.example.com/" + c.Name,
		ApprovalStatus: domain.CreativeApproved,
	})
	return campaignID, creativeID
}

// === Selection ===

func TestAds_SelectServesOnlyActiveCampaigns(t *testing.T) {
	f := newAdsFixture(t)
	f.addCampaign(domain.AdCampaign{Name: "draft", Status: domain.CampaignDraft})
	f.addCampaign(domain.AdCampaign{Name: "paused", Status: domain.CampaignPaused})
	f.addCampaign(domain.AdCampaign{Name: "completed", Status: domain.CampaignCompleted})
	f.addCampaign(domain.AdCampaign{Name: "archived", Status: domain.CampaignArchived})
	_, wantCreative := f.addCampaign(domain.AdCampaign{Name: "live"})

	creative, err := f.svc.SelectAdForUser(context.Background(), nil, "home_feed", nil)
	require.NoError(t, err)
	require.NotNil(t, creative)
	require.Equal(t, wantCreative, creative.ID)
}

func TestAds_SelectRespectsFlightWindow(t *testing.T) {
	f := newAdsFixture(t)
	future := adsNow.Add(24 * time.Hour)
	past := adsNow.Add(-24 * time.Hour)
	earlier := adsNow.Add(-48 * time.Hour)

	f.addCampaign(domain.AdCampaign{Name: "not-started", StartAt: &future})
	f.addCampaign(domain.AdCampaign{Name: "ended", StartAt: &earlier, EndAt: &past})
	_, wantCreative := f.addCampaign(domain.AdCampaign{Name: "in-flight", StartAt: &earlier, EndAt: &future})

	creative, err := f.svc.SelectAdForUser(context.Background(), nil, "home_feed", nil)
	require.NoError(t, err)
	require.NotNil(t, creative)
	require.Equal(t, wantCreative, creative.ID)
}

func TestAds_SelectUnboundedFlightServes(t *testing.T) {
	f := newAdsFixture(t)
	_, wantCreative := f.addCampaign(domain.AdCampaign{Name: "evergreen"})

	creative, err := f.svc.SelectAdForUser(context.Background(), nil, "home_feed", nil)
	require.NoError(t, err)
	require.NotNil(t, creative)
	require.Equal(t, wantCreative, creative.ID)
}

func TestAds_SelectFiltersByPlacement(t *testing.T) {
	f := newAdsFixture(t)
	f.addCampaign(domain.AdCampaign{Name: "feed-only", Placements: []string{"home_feed"}})

	creative, err := f.svc.SelectAdForUser(context.Background(), nil, "session_summary", nil)
	require.NoError(t, err)
	require.Nil(t, creative)
}

func TestAds_SelectSkipsUnapprovedCreatives(t *testing.T) {
	f := newAdsFixture(t)
	campaignID := f.campaignRepo.add(domain.AdCampaign{
		Name: "live", Status: domain.CampaignActive,
		Placements: []string{"home_feed"}, BudgetCents: 1_000_000,
	})
	f.creativeRepo.add(domain.AdCreative{CampaignID: campaignID, ApprovalStatus: domain.CreativePending})
	f.creativeRepo.add(domain.AdCreative{CampaignID: campaignID, ApprovalStatus: domain.CreativeRejected})

	creative, err := f.svc.SelectAdForUser(context.Background(), nil, "home_feed", nil)
	require.NoError(t, err)
	require.Nil(t, creative)
}

func TestAds_SelectTargeting(t *testing.T) {
	f := newAdsFixture(t)
	userID := f.userRepo.add(domain.User{
		Email: "a@example.com", Goals: []string{"strength", "mobility"},
		ExperienceLevel: "beginner", Country: "UA",
	})

	f.addCampaign(domain.AdCampaign{Name: "wrong-goal", Targeting: domain.AdTargeting{Goals: []string{"fat_loss"}}})
	f.addCampaign(domain.AdCampaign{Name: "wrong-level", Targeting: domain.AdTargeting{ExperienceLevel: "advanced"}})
	f.addCampaign(domain.AdCampaign{Name: "wrong-country", Targeting: domain.AdTargeting{LocationCountry: "US"}})
	_, wantCreative := f.addCampaign(domain.AdCampaign{Name: "match", Targeting: domain.AdTargeting{
		Goals:           []string{"strength", "endurance"},
		ExperienceLevel: "beginner",
		LocationCountry: "UA",
	}})

	creative, err := f.svc.SelectAdForUser(context.Background(), &userID, "home_feed", nil)
	require.NoError(t, err)
	require.NotNil(t, creative)
	require.Equal(t, wantCreative, creative.ID)
}

func TestAds_SelectAbsentTargetingIsOpen(t *testing.T) {
	f := newAdsFixture(t)
	userID := f.userRepo.add(domain.User{Email: "a@example.com", Goals: []string{"strength"}})
	_, wantCreative := f.addCampaign(domain.AdCampaign{Name: "open"})

	creative, err := f.svc.SelectAdForUser(context.Background(), &userID, "home_feed", nil)
	require.NoError(t, err)
	require.NotNil(t, creative)
	require.Equal(t, wantCreative, creative.ID)
}

func TestAds_SelectUnknownUserServedUntargeted(t *testing.T) {
	f := newAdsFixture(t)
	_, wantCreative := f.addCampaign(domain.AdCampaign{Name: "targeted", Targeting: domain.AdTargeting{
		ExperienceLevel: "advanced",
	}})

	// An unknown user id behaves like an anonymous request: targeting
	// dimensions are not evaluated at all.
	unknown := primitive.NewObjectID()
	creative, err := f.svc.SelectAdForUser(context.Background(), &unknown, "home_feed", nil)
	require.NoError(t, err)
	require.NotNil(t, creative)
	require.Equal(t, wantCreative, creative.ID)
}

func TestAds_SelectExcludesCreative(t *testing.T) {
	f := newAdsFixture(t)
	_, excluded := f.addCampaign(domain.AdCampaign{Name: "first"})
	_, wantCreative := f.addCampaign(domain.AdCampaign{Name: "second"})

	creative, err := f.svc.SelectAdForUser(context.Background(), nil, "home_feed", &excluded)
	require.NoError(t, err)
	require.NotNil(t, creative)
	require.Equal(t, wantCreative, creative.ID)
}

func TestAds_SelectNoCandidates(t *testing.T) {
	f := newAdsFixture(t)
	creative, err := f.svc.SelectAdForUser(context.Background(), nil, "home_feed", nil)
	require.NoError(t, err)
	require.Nil(t, creative)
}

func TestAds_SelectImpliesImpression(t *testing.T) {
	f := newAdsFixture(t)
	campaignID, creativeID := f.addCampaign(domain.AdCampaign{Name: "live", CPMCents: 500})
	ctx := context.Background()

	_, err := f.svc.SelectAdForUser(ctx, nil, "home_feed", nil)
	require.NoError(t, err)

	creative, err := f.creativeRepo.GetByID(ctx, creativeID)
	require.NoError(t, err)
	require.EqualValues(t, 1, creative.Impressions)

	campaign, err := f.campaignRepo.GetByID(ctx, campaignID)
	require.NoError(t, err)
	require.EqualValues(t, 1, campaign.Impressions)
	// 1 impression at 500 cents CPM is half a cent, rounded up.
	require.EqualValues(t, 1, campaign.SpendCents)
}

// === Counters & spend ===

func TestAds_ComputeSpendCents(t *testing.T) {
	require.EqualValues(t, 100, computeSpendCents(200, 0, 500, 0))
	require.EqualValues(t, 75, computeSpendCents(0, 3, 0, 25))
	require.EqualValues(t, 175, computeSpendCents(200, 3, 500, 25))
	require.EqualValues(t, 1, computeSpendCents(1, 0, 500, 0)) // 0.5 rounds half-up
	require.EqualValues(t, 0, computeSpendCents(1, 0, 400, 0)) // 0.4 rounds down
	require.EqualValues(t, 0, computeSpendCents(0, 0, 500, 25))
}

func TestAds_RecordClickReturnsClickURL(t *testing.T) {
	f := newAdsFixture(t)
	campaignID, creativeID := f.addCampaign(domain.AdCampaign{Name: "live", CPCCents: 25})
	ctx := context.Background()

	url, err := f.svc.RecordClick(ctx, creativeID)
	require.NoError(t, err)
	require.Equal(t, "https://partner.example.com/live", url)

	campaign, err := f.campaignRepo.GetByID(ctx, campaignID)
	require.NoError(t, err)
	require.EqualValues(t, 1, campaign.Clicks)
	require.EqualValues(t, 25, campaign.SpendCents)
}

func TestAds_RecordClickUnknownCreative(t *testing.T) {
	f := newAdsFixture(t)
	_, err := f.svc.RecordClick(context.Background(), primitive.NewObjectID())
	require.ErrorIs(t, err, ErrCreativeNotFound)
}

func TestAds_AutoPauseOnBudget(t *testing.T) {
	f := newAdsFixture(t)
	campaignID, creativeID := f.addCampaign(domain.AdCampaign{
		Name: "tight", BudgetCents: 100, CPMCents: 500, Impressions: 199,
	})
	ctx := context.Background()

	require.NoError(t, f.svc.RecordImpression(ctx, creativeID))

	campaign, err := f.campaignRepo.GetByID(ctx, campaignID)
	require.NoError(t, err)
	require.EqualValues(t, 100, campaign.SpendCents)
	require.Equal(t, domain.CampaignPaused, campaign.Status)
}

func TestAds_AutoPausePastEndDate(t *testing.T) {
	f := newAdsFixture(t)
	past := adsNow.Add(-time.Hour)
	campaignID, creativeID := f.addCampaign(domain.AdCampaign{
		Name: "expired", BudgetCents: 1_000_000, CPMCents: 500, EndAt: &past,
	})
	ctx := context.Background()

	require.NoError(t, f.svc.RecordImpression(ctx, creativeID))

	campaign, err := f.campaignRepo.GetByID(ctx, campaignID)
	require.NoError(t, err)
	require.Equal(t, domain.CampaignPaused, campaign.Status)
}

func TestAds_NoAutoPauseUnderBudget(t *testing.T) {
	f := newAdsFixture(t)
	campaignID, creativeID := f.addCampaign(domain.AdCampaign{
		Name: "healthy", BudgetCents: 1000, CPMCents: 500,
	})
	ctx := context.Background()

	require.NoError(t, f.svc.RecordImpression(ctx, creativeID))

	campaign, err := f.campaignRepo.GetByID(ctx, campaignID)
	require.NoError(t, err)
	require.Equal(t, domain.CampaignActive, campaign.Status)
}

// === Lifecycle ===

func TestAds_CreateCampaignForcesDraft(t *testing.T) {
	f := newAdsFixture(t)
	created, err := f.svc.CreateCampaign(context.Background(), &domain.AdCampaign{
		Name: "new", Status: domain.CampaignActive,
	})
	require.NoError(t, err)
	require.Equal(t, domain.CampaignDraft, created.Status)
	require.False(t, created.ID.IsZero())
}

func TestAds_CampaignLifecycle(t *testing.T) {
	f := newAdsFixture(t)
	partnerID := primitive.NewObjectID()
	ctx := context.Background()

	created, err := f.svc.CreateCampaign(ctx, &domain.AdCampaign{Name: "lc", PartnerID: partnerID})
	require.NoError(t, err)
	id := created.ID

	// DRAFT cannot pause, complete or archive.
	require.ErrorIs(t, f.svc.PauseCampaign(ctx, partnerID, id), ErrInvalidTransition)
	require.ErrorIs(t, f.svc.CompleteCampaign(ctx, partnerID, id), ErrInvalidTransition)
	require.ErrorIs(t, f.svc.ArchiveCampaign(ctx, partnerID, id), ErrInvalidTransition)

	require.NoError(t, f.svc.ActivateCampaign(ctx, partnerID, id))
	require.NoError(t, f.svc.PauseCampaign(ctx, partnerID, id))
	require.NoError(t, f.svc.ResumeCampaign(ctx, partnerID, id))
	require.NoError(t, f.svc.CompleteCampaign(ctx, partnerID, id))

	// COMPLETED is terminal except for archival.
	require.ErrorIs(t, f.svc.ActivateCampaign(ctx, partnerID, id), ErrInvalidTransition)
	require.NoError(t, f.svc.ArchiveCampaign(ctx, partnerID, id))
	require.ErrorIs(t, f.svc.ResumeCampaign(ctx, partnerID, id), ErrInvalidTransition)
}

func TestAds_TransitionChecksOwnership(t *testing.T) {
	f := newAdsFixture(t)
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	ctx := context.Background()

	created, err := f.svc.CreateCampaign(ctx, &domain.AdCampaign{Name: "mine", PartnerID: owner})
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.ActivateCampaign(ctx, stranger, created.ID), ErrCampaignAccessDenied)
	require.NoError(t, f.svc.ActivateCampaign(ctx, owner, created.ID))
}

func TestAds_TransitionUnknownCampaign(t *testing.T) {
	f := newAdsFixture(t)
	err := f.svc.ActivateCampaign(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	require.ErrorIs(t, err, ErrCampaignNotFound)
}

// === Creatives ===

func TestAds_AddCreativeChecksOwnership(t *testing.T) {
	f := newAdsFixture(t)
	owner := primitive.NewObjectID()
	campaignID := f.campaignRepo.add(domain.AdCampaign{Name: "c", PartnerID: owner, Status: domain.CampaignDraft})
	ctx := context.Background()

	_, err := f.svc.AddCreative(ctx, primitive.NewObjectID(), &domain.AdCreative{CampaignID: campaignID})
	require.ErrorIs(t, err, ErrCampaignAccessDenied)

	created, err := f.svc.AddCreative(ctx, owner, &domain.AdCreative{
		CampaignID: campaignID, Title: "Try Massimino Pro", ApprovalStatus: domain.CreativePending,
	})
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())
}

func TestAds_CreativeReviewGatesSelection(t *testing.T) {
	f := newAdsFixture(t)
	campaignID := f.campaignRepo.add(domain.AdCampaign{
		Name: "live", Status: domain.CampaignActive,
		Placements: []string{"home_feed"}, BudgetCents: 1_000_000,
	})
	creativeID := f.creativeRepo.add(domain.AdCreative{
		CampaignID: campaignID, ApprovalStatus: domain.CreativePending,
	})
	ctx := context.Background()

	pending, err := f.svc.ListPendingCreatives(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	selected, err := f.svc.SelectAdForUser(ctx, nil, "home_feed", nil)
	require.NoError(t, err)
	require.Nil(t, selected)

	require.NoError(t, f.svc.ReviewCreative(ctx, creativeID, true))

	selected, err = f.svc.SelectAdForUser(ctx, nil, "home_feed", nil)
	require.NoError(t, err)
	require.NotNil(t, selected)
	require.Equal(t, creativeID, selected.ID)
}

func TestAds_AssetUploadURL(t *testing.T) {
	f := newAdsFixture(t)
	owner := primitive.NewObjectID()
	campaignID := f.campaignRepo.add(domain.AdCampaign{Name: "c", PartnerID: owner, Status: domain.CampaignDraft})
	ctx := context.Background()

	url, key, err := f.svc.GetCreativeAssetUploadURL(ctx, owner, campaignID, "image/png")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(key, "creatives/"+campaignID.Hex()+"/"))
	require.Contains(t, url, key)

	_, _, err = f.svc.GetCreativeAssetUploadURL(ctx, primitive.NewObjectID(), campaignID, "image/png")
	require.ErrorIs(t, err, ErrCampaignAccessDenied)
}
