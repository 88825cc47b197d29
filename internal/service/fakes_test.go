package service

// In-memory repository implementations for service tests. They mirror the
// mongo repositories' observable behavior: ErrNotFound on misses, ids
// assigned on insert, stable insertion order where the services rely on it.

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"massimino/fitness-platform/internal/domain"
	"massimino/fitness-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- users ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) add(user domain.User) primitive.ObjectID {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := user
	r.users[user.ID] = &cp
	return user.ID
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.RepositoryError("duplicate email")
		}
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) SetSocialConnection(_ context.Context, userID primitive.ObjectID, conn domain.SocialConnection) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if u.SocialConnections == nil {
		u.SocialConnections = make(map[string]domain.SocialConnection)
	}
	u.SocialConnections[conn.Platform] = conn
	return nil
}

func (r *fakeUserRepo) RemoveSocialConnection(_ context.Context, userID primitive.ObjectID, platform string) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	delete(u.SocialConnections, platform)
	return nil
}

func (r *fakeUserRepo) AddDeviceToken(_ context.Context, userID primitive.ObjectID, token string) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.DeviceTokens = append(u.DeviceTokens, token)
	return nil
}

// --- trainer-client links ---

type fakeLinkRepo struct {
	links []*domain.TrainerClientLink
}

func newFakeLinkRepo() *fakeLinkRepo { return &fakeLinkRepo{} }

func (r *fakeLinkRepo) Create(_ context.Context, link *domain.TrainerClientLink) (primitive.ObjectID, error) {
	link.ID = primitive.NewObjectID()
	cp := *link
	r.links = append(r.links, &cp)
	return link.ID, nil
}

func (r *fakeLinkRepo) GetByTrainerAndClient(_ context.Context, trainerID, clientID primitive.ObjectID) (*domain.TrainerClientLink, error) {
	for _, l := range r.links {
		if l.TrainerID == trainerID && l.ClientID == clientID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeLinkRepo) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.TrainerClientLink, error) {
	var out []domain.TrainerClientLink
	for _, l := range r.links {
		if l.TrainerID == trainerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLinkRepo) TouchLastSession(_ context.Context, linkID primitive.ObjectID) error {
	for _, l := range r.links {
		if l.ID == linkID {
			now := time.Now().UTC()
			l.LastSessionDate = &now
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- exercises ---

type fakeExerciseRepo struct {
	exercises []*domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo { return &fakeExerciseRepo{} }

func (r *fakeExerciseRepo) add(ex domain.Exercise) primitive.ObjectID {
	if ex.ID.IsZero() {
		ex.ID = primitive.NewObjectID()
	}
	cp := ex
	r.exercises = append(r.exercises, &cp)
	return ex.ID
}

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	exercise.ID = primitive.NewObjectID()
	cp := *exercise
	r.exercises = append(r.exercises, &cp)
	return exercise.ID, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	for _, ex := range r.exercises {
		if ex.ID == id {
			cp := *ex
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeExerciseRepo) GetByName(_ context.Context, name string) (*domain.Exercise, error) {
	for _, ex := range r.exercises {
		if ex.Name == name {
			cp := *ex
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeExerciseRepo) FindFirstFuzzy(_ context.Context, token, fullName string) (*domain.Exercise, error) {
	sorted := make([]*domain.Exercise, len(r.exercises))
	copy(sorted, r.exercises)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	lowered := strings.ToLower(token)
	for _, ex := range sorted {
		if strings.Contains(strings.ToLower(ex.Name), lowered) {
			cp := *ex
			return &cp, nil
		}
		for _, alias := range ex.Aliases {
			if alias == fullName {
				cp := *ex
				return &cp, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeExerciseRepo) List(_ context.Context) ([]domain.Exercise, error) {
	out := make([]domain.Exercise, 0, len(r.exercises))
	for _, ex := range r.exercises {
		out = append(out, *ex)
	}
	return out, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	for i, ex := range r.exercises {
		if ex.ID == exercise.ID {
			cp := *exercise
			r.exercises[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- program tree ---

type fakeProgramRepo struct {
	templates        map[primitive.ObjectID]*domain.ProgramTemplate
	phases           []domain.ProgramPhase
	microcycles      []domain.ProgramMicrocycle
	workouts         []domain.ProgramWorkout
	workoutExercises []domain.ProgramWorkoutExercise

	// missingPhases makes GetMicrocyclesByPhaseID report ErrNotFound.
	missingPhases map[primitive.ObjectID]bool
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{
		templates:     make(map[primitive.ObjectID]*domain.ProgramTemplate),
		missingPhases: make(map[primitive.ObjectID]bool),
	}
}

func (r *fakeProgramRepo) InsertTemplate(_ context.Context, tmpl *domain.ProgramTemplate) (primitive.ObjectID, error) {
	tmpl.ID = primitive.NewObjectID()
	cp := *tmpl
	r.templates[tmpl.ID] = &cp
	return tmpl.ID, nil
}

func (r *fakeProgramRepo) UpsertTemplate(_ context.Context, tmpl *domain.ProgramTemplate) error {
	cp := *tmpl
	r.templates[tmpl.ID] = &cp
	return nil
}

func (r *fakeProgramRepo) GetTemplateByID(_ context.Context, id primitive.ObjectID) (*domain.ProgramTemplate, error) {
	tmpl, ok := r.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *tmpl
	return &cp, nil
}

func (r *fakeProgramRepo) ListTemplates(_ context.Context, visibility domain.Visibility) ([]domain.ProgramTemplate, error) {
	var out []domain.ProgramTemplate
	for _, tmpl := range r.templates {
		if tmpl.Visibility == visibility && tmpl.IsActive {
			out = append(out, *tmpl)
		}
	}
	return out, nil
}

func (r *fakeProgramRepo) DeactivateTemplate(_ context.Context, id primitive.ObjectID) error {
	tmpl, ok := r.templates[id]
	if !ok {
		return repository.ErrNotFound
	}
	tmpl.IsActive = false
	return nil
}

func (r *fakeProgramRepo) DeletePhasesByProgramID(_ context.Context, programID primitive.ObjectID) error {
	kept := r.phases[:0]
	for _, p := range r.phases {
		if p.ProgramID != programID {
			kept = append(kept, p)
		}
	}
	r.phases = kept
	return nil
}

func (r *fakeProgramRepo) InsertPhases(_ context.Context, phases []domain.ProgramPhase) error {
	for i := range phases {
		phases[i].ID = primitive.NewObjectID()
		r.phases = append(r.phases, phases[i])
	}
	return nil
}

func (r *fakeProgramRepo) GetPhasesByProgramID(_ context.Context, programID primitive.ObjectID) ([]domain.ProgramPhase, error) {
	var out []domain.ProgramPhase
	for _, p := range r.phases {
		if p.ProgramID == programID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PhaseNumber < out[j].PhaseNumber })
	return out, nil
}

func (r *fakeProgramRepo) DeleteTreeByProgramID(_ context.Context, programID primitive.ObjectID) error {
	cycles := r.microcycles[:0]
	for _, mc := range r.microcycles {
		if mc.ProgramID != programID {
			cycles = append(cycles, mc)
		}
	}
	r.microcycles = cycles

	workouts := r.workouts[:0]
	for _, w := range r.workouts {
		if w.ProgramID != programID {
			workouts = append(workouts, w)
		}
	}
	r.workouts = workouts

	exercises := r.workoutExercises[:0]
	for _, we := range r.workoutExercises {
		if we.ProgramID != programID {
			exercises = append(exercises, we)
		}
	}
	r.workoutExercises = exercises
	return nil
}

func (r *fakeProgramRepo) InsertMicrocycle(_ context.Context, mc *domain.ProgramMicrocycle) (primitive.ObjectID, error) {
	mc.ID = primitive.NewObjectID()
	r.microcycles = append(r.microcycles, *mc)
	return mc.ID, nil
}

func (r *fakeProgramRepo) GetMicrocyclesByPhaseID(_ context.Context, phaseID primitive.ObjectID) ([]domain.ProgramMicrocycle, error) {
	if r.missingPhases[phaseID] {
		return nil, repository.ErrNotFound
	}
	var out []domain.ProgramMicrocycle
	for _, mc := range r.microcycles {
		if mc.PhaseID == phaseID {
			out = append(out, mc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekNumber < out[j].WeekNumber })
	return out, nil
}

func (r *fakeProgramRepo) InsertWorkout(_ context.Context, w *domain.ProgramWorkout) (primitive.ObjectID, error) {
	w.ID = primitive.NewObjectID()
	r.workouts = append(r.workouts, *w)
	return w.ID, nil
}

func (r *fakeProgramRepo) GetWorkoutsByMicrocycleID(_ context.Context, microcycleID primitive.ObjectID) ([]domain.ProgramWorkout, error) {
	var out []domain.ProgramWorkout
	for _, w := range r.workouts {
		if w.MicrocycleID == microcycleID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out, nil
}

func (r *fakeProgramRepo) InsertWorkoutExercise(_ context.Context, we *domain.ProgramWorkoutExercise) (primitive.ObjectID, error) {
	we.ID = primitive.NewObjectID()
	r.workoutExercises = append(r.workoutExercises, *we)
	return we.ID, nil
}

func (r *fakeProgramRepo) GetExercisesByWorkoutID(_ context.Context, workoutID primitive.ObjectID) ([]domain.ProgramWorkoutExercise, error) {
	var out []domain.ProgramWorkoutExercise
	for _, we := range r.workoutExercises {
		if we.WorkoutID == workoutID {
			out = append(out, we)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// --- subscriptions ---

type fakeSubscriptionRepo struct {
	subs map[primitive.ObjectID]*domain.ProgramSubscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[primitive.ObjectID]*domain.ProgramSubscription)}
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, sub *domain.ProgramSubscription) (primitive.ObjectID, error) {
	sub.ID = primitive.NewObjectID()
	cp := *sub
	r.subs[sub.ID] = &cp
	return sub.ID, nil
}

func (r *fakeSubscriptionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ProgramSubscription, error) {
	sub, ok := r.subs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *fakeSubscriptionRepo) GetActiveByUser(_ context.Context, userID primitive.ObjectID) ([]domain.ProgramSubscription, error) {
	var out []domain.ProgramSubscription
	for _, sub := range r.subs {
		if sub.UserID == userID && sub.IsActive {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) Update(_ context.Context, sub *domain.ProgramSubscription) error {
	if _, ok := r.subs[sub.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *sub
	r.subs[sub.ID] = &cp
	return nil
}

// --- sessions ---

type fakeSessionRepo struct {
	sessions map[primitive.ObjectID]*domain.WorkoutSession
	logs     []domain.SessionLogEntry
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]*domain.WorkoutSession)}
}

func (r *fakeSessionRepo) CreateSession(_ context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	session.ID = primitive.NewObjectID()
	cp := *session
	r.sessions[session.ID] = &cp
	return session.ID, nil
}

func (r *fakeSessionRepo) GetSessionByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *session
	return &cp, nil
}

func (r *fakeSessionRepo) GetSessionsByAthlete(_ context.Context, athleteID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	var out []domain.WorkoutSession
	for _, s := range r.sessions {
		if s.AthleteID == athleteID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) CompleteSession(_ context.Context, id primitive.ObjectID) error {
	session, ok := r.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	session.CompletedAt = &now
	return nil
}

func (r *fakeSessionRepo) CreateLogEntry(_ context.Context, entry *domain.SessionLogEntry) (primitive.ObjectID, error) {
	entry.ID = primitive.NewObjectID()
	r.logs = append(r.logs, *entry)
	return entry.ID, nil
}

func (r *fakeSessionRepo) GetLogEntriesBySession(_ context.Context, sessionID primitive.ObjectID) ([]domain.SessionLogEntry, error) {
	var out []domain.SessionLogEntry
	for _, e := range r.logs {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

// --- campaigns ---

type fakeCampaignRepo struct {
	campaigns map[primitive.ObjectID]*domain.AdCampaign
	order     []primitive.ObjectID
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: make(map[primitive.ObjectID]*domain.AdCampaign)}
}

func (r *fakeCampaignRepo) add(c domain.AdCampaign) primitive.ObjectID {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cp := c
	r.campaigns[c.ID] = &cp
	r.order = append(r.order, c.ID)
	return c.ID
}

func (r *fakeCampaignRepo) Create(_ context.Context, campaign *domain.AdCampaign) (primitive.ObjectID, error) {
	campaign.ID = primitive.NewObjectID()
	cp := *campaign
	r.campaigns[campaign.ID] = &cp
	r.order = append(r.order, campaign.ID)
	return campaign.ID, nil
}

func (r *fakeCampaignRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.AdCampaign, error) {
	c, ok := r.campaigns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCampaignRepo) ListByStatus(_ context.Context, status domain.CampaignStatus) ([]domain.AdCampaign, error) {
	var out []domain.AdCampaign
	for _, id := range r.order {
		if c := r.campaigns[id]; c.Status == status {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCampaignRepo) ListByPartnerID(_ context.Context, partnerID primitive.ObjectID) ([]domain.AdCampaign, error) {
	var out []domain.AdCampaign
	for _, id := range r.order {
		if c := r.campaigns[id]; c.PartnerID == partnerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCampaignRepo) SetStatus(_ context.Context, id primitive.ObjectID, status domain.CampaignStatus) error {
	c, ok := r.campaigns[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Status = status
	return nil
}

func (r *fakeCampaignRepo) IncrementCounters(_ context.Context, id primitive.ObjectID, impressions, clicks int64) error {
	c, ok := r.campaigns[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Impressions += impressions
	c.Clicks += clicks
	return nil
}

func (r *fakeCampaignRepo) SetSpend(_ context.Context, id primitive.ObjectID, spendCents int64) error {
	c, ok := r.campaigns[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.SpendCents = spendCents
	return nil
}

// --- creatives ---

type fakeCreativeRepo struct {
	creatives map[primitive.ObjectID]*domain.AdCreative
	order     []primitive.ObjectID
}

func newFakeCreativeRepo() *fakeCreativeRepo {
	return &fakeCreativeRepo{creatives: make(map[primitive.ObjectID]*domain.AdCreative)}
}

func (r *fakeCreativeRepo) add(cr domain.AdCreative) primitive.ObjectID {
	if cr.ID.IsZero() {
		cr.ID = primitive.NewObjectID()
	}
	cp := cr
	r.creatives[cr.ID] = &cp
	r.order = append(r.order, cr.ID)
	return cr.ID
}

func (r *fakeCreativeRepo) Create(_ context.Context, creative *domain.AdCreative) (primitive.ObjectID, error) {
	creative.ID = primitive.NewObjectID()
	cp := *creative
	r.creatives[creative.ID] = &cp
	r.order = append(r.order, creative.ID)
	return creative.ID, nil
}

func (r *fakeCreativeRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.AdCreative, error) {
	cr, ok := r.creatives[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *cr
	return &cp, nil
}

func (r *fakeCreativeRepo) ListByCampaignID(_ context.Context, campaignID primitive.ObjectID) ([]domain.AdCreative, error) {
	var out []domain.AdCreative
	for _, id := range r.order {
		if cr := r.creatives[id]; cr.CampaignID == campaignID {
			out = append(out, *cr)
		}
	}
	return out, nil
}

func (r *fakeCreativeRepo) ListApprovedByCampaignIDs(_ context.Context, campaignIDs []primitive.ObjectID) ([]domain.AdCreative, error) {
	wanted := make(map[primitive.ObjectID]bool, len(campaignIDs))
	for _, id := range campaignIDs {
		wanted[id] = true
	}
	var out []domain.AdCreative
	for _, id := range r.order {
		cr := r.creatives[id]
		if cr.ApprovalStatus == domain.CreativeApproved && wanted[cr.CampaignID] {
			out = append(out, *cr)
		}
	}
	return out, nil
}

func (r *fakeCreativeRepo) ListByApprovalStatus(_ context.Context, status domain.ApprovalStatus) ([]domain.AdCreative, error) {
	var out []domain.AdCreative
	for _, id := range r.order {
		if cr := r.creatives[id]; cr.ApprovalStatus == status {
			out = append(out, *cr)
		}
	}
	return out, nil
}

func (r *fakeCreativeRepo) SetApprovalStatus(_ context.Context, id primitive.ObjectID, status domain.ApprovalStatus) error {
	cr, ok := r.creatives[id]
	if !ok {
		return repository.ErrNotFound
	}
	cr.ApprovalStatus = status
	return nil
}

func (r *fakeCreativeRepo) IncrementCounters(_ context.Context, id primitive.ObjectID, impressions, clicks int64) error {
	cr, ok := r.creatives[id]
	if !ok {
		return repository.ErrNotFound
	}
	cr.Impressions += impressions
	cr.Clicks += clicks
	return nil
}

// --- partners ---

type fakePartnerRepo struct {
	leads    map[primitive.ObjectID]*domain.PartnerLead
	partners map[primitive.ObjectID]*domain.Partner
	gyms     []domain.GymIntegration
}

func newFakePartnerRepo() *fakePartnerRepo {
	return &fakePartnerRepo{
		leads:    make(map[primitive.ObjectID]*domain.PartnerLead),
		partners: make(map[primitive.ObjectID]*domain.Partner),
	}
}

func (r *fakePartnerRepo) CreateLead(_ context.Context, lead *domain.PartnerLead) (primitive.ObjectID, error) {
	lead.ID = primitive.NewObjectID()
	cp := *lead
	r.leads[lead.ID] = &cp
	return lead.ID, nil
}

func (r *fakePartnerRepo) GetLeadByID(_ context.Context, id primitive.ObjectID) (*domain.PartnerLead, error) {
	lead, ok := r.leads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *lead
	return &cp, nil
}

func (r *fakePartnerRepo) ListLeadsByStatus(_ context.Context, status domain.LeadStatus) ([]domain.PartnerLead, error) {
	var out []domain.PartnerLead
	for _, lead := range r.leads {
		if lead.Status == status {
			out = append(out, *lead)
		}
	}
	return out, nil
}

func (r *fakePartnerRepo) SetLeadStatus(_ context.Context, id primitive.ObjectID, status domain.LeadStatus) error {
	lead, ok := r.leads[id]
	if !ok {
		return repository.ErrNotFound
	}
	lead.Status = status
	return nil
}

func (r *fakePartnerRepo) CreatePartner(_ context.Context, partner *domain.Partner) (primitive.ObjectID, error) {
	partner.ID = primitive.NewObjectID()
	cp := *partner
	r.partners[partner.ID] = &cp
	return partner.ID, nil
}

func (r *fakePartnerRepo) GetPartnerByID(_ context.Context, id primitive.ObjectID) (*domain.Partner, error) {
	partner, ok := r.partners[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *partner
	return &cp, nil
}

func (r *fakePartnerRepo) GetPartnerByAPIKeyHash(_ context.Context, keyHash string) (*domain.Partner, error) {
	for _, partner := range r.partners {
		if partner.APIKeyHash != "" && partner.APIKeyHash == keyHash {
			cp := *partner
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePartnerRepo) SetAPIKeyHash(_ context.Context, partnerID primitive.ObjectID, keyHash string) error {
	partner, ok := r.partners[partnerID]
	if !ok {
		return repository.ErrNotFound
	}
	partner.APIKeyHash = keyHash
	return nil
}

func (r *fakePartnerRepo) CreateGymIntegration(_ context.Context, gym *domain.GymIntegration) (primitive.ObjectID, error) {
	gym.ID = primitive.NewObjectID()
	r.gyms = append(r.gyms, *gym)
	return gym.ID, nil
}

func (r *fakePartnerRepo) ListGymIntegrationsByPartner(_ context.Context, partnerID primitive.ObjectID) ([]domain.GymIntegration, error) {
	var out []domain.GymIntegration
	for _, gym := range r.gyms {
		if gym.PartnerID == partnerID {
			out = append(out, gym)
		}
	}
	return out, nil
}

// --- feedback & stats ---

type fakeFeedbackRepo struct {
	entries []domain.Feedback
}

func (r *fakeFeedbackRepo) Create(_ context.Context, fb *domain.Feedback) (primitive.ObjectID, error) {
	fb.ID = primitive.NewObjectID()
	r.entries = append(r.entries, *fb)
	return fb.ID, nil
}

func (r *fakeFeedbackRepo) List(_ context.Context) ([]domain.Feedback, error) {
	out := make([]domain.Feedback, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

type fakeStatsRepo struct {
	stats domain.DashboardStats
}

func (r *fakeStatsRepo) Snapshot(_ context.Context) (*domain.DashboardStats, error) {
	cp := r.stats
	return &cp, nil
}

// --- push deliveries ---

type fakePushDeliveryRepo struct {
	deliveries []domain.PushDelivery
}

func (r *fakePushDeliveryRepo) Create(_ context.Context, delivery *domain.PushDelivery) (primitive.ObjectID, error) {
	delivery.ID = primitive.NewObjectID()
	r.deliveries = append(r.deliveries, *delivery)
	return delivery.ID, nil
}

func (r *fakePushDeliveryRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.PushDelivery, error) {
	var out []domain.PushDelivery
	for _, d := range r.deliveries {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

// --- storage & outbound stubs ---

type fakeFileStorage struct {
	deleted []string
}

func (s *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, contentType string, _ time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/upload/%s?ct=%s", objectKey, contentType), nil
}

func (s *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (s *fakeFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	return nil
}

type fakeNotifier struct {
	scheduled []string
	assigned  []string
}

func (n *fakeNotifier) NotifySessionScheduled(_ primitive.ObjectID, sessionTitle string) {
	n.scheduled = append(n.scheduled, sessionTitle)
}

func (n *fakeNotifier) NotifyProgramAssigned(_ primitive.ObjectID, programName string) {
	n.assigned = append(n.assigned, programName)
}

type fakeShareSender struct {
	sent []string
	err  error
}

func (s *fakeShareSender) Share(_ context.Context, _ domain.SocialConnection, message string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, message)
	return nil
}
