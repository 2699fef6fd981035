package claimengine

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/traceback-app/traceback/app/models"
	"github.com/traceback-app/traceback/app/repository"
	"github.com/traceback-app/traceback/internal/pkg/clock"
)

// memStore is an in-memory stand-in for the database, shared by the typed
// repository fakes below. It reproduces the row-level guarantees the real
// implementations get from MySQL: guarded updates, the (item, claimant)
// unique index, and the one-claim-per-item unique index.
type memStore struct {
	mu  sync.Mutex
	clk clock.Clock

	items    map[uint]*models.FoundItem
	attempts map[uint]*models.ClaimAttempt
	claims   map[uint]*models.Claim
	lost     map[uint]*models.LostItem
	returns  []models.SuccessfulReturn
	reports  []*models.AbuseReport

	failReportCreate bool

	nextID uint
}

func newMemStore(clk clock.Clock) *memStore {
	return &memStore{
		clk:      clk,
		items:    make(map[uint]*models.FoundItem),
		attempts: make(map[uint]*models.ClaimAttempt),
		claims:   make(map[uint]*models.Claim),
		lost:     make(map[uint]*models.LostItem),
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

type memItems struct{ s *memStore }

func (m memItems) Create(item *models.FoundItem) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	item.ID = m.s.id()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = m.s.clk.Now()
	}
	if item.ClaimStatus == "" {
		item.ClaimStatus = models.ClaimStatusOpen
	}
	for i := range item.Questions {
		item.Questions[i].ID = m.s.id()
		item.Questions[i].FoundItemID = item.ID
	}
	stored := *item
	m.s.items[item.ID] = &stored
	return nil
}

func (m memItems) get(id uint) (*models.FoundItem, error) {
	stored, ok := m.s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	item := *stored
	return &item, nil
}

func (m memItems) GetByID(id uint) (*models.FoundItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	item, err := m.get(id)
	if err != nil {
		return nil, err
	}
	item.Questions = nil
	return item, nil
}

func (m memItems) GetByUUID(uuid string) (*models.FoundItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, stored := range m.s.items {
		if stored.UUID == uuid {
			return m.get(id)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m memItems) GetWithQuestions(id uint) (*models.FoundItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.get(id)
}

func (m memItems) List(offset, limit int) ([]models.FoundItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	items := make([]models.FoundItem, 0, len(m.s.items))
	for _, stored := range m.s.items {
		items = append(items, *stored)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	if offset >= len(items) {
		return nil, nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (m memItems) ListByFinder(finderID uint) ([]models.FoundItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var items []models.FoundItem
	for _, stored := range m.s.items {
		if stored.FinderID == finderID {
			items = append(items, *stored)
		}
	}
	return items, nil
}

func (m memItems) Count() (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.s.items)), nil
}

func (m memItems) SetClaimStatus(id uint, to string, allowedFrom ...string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.items[id]
	if !ok {
		return false, nil
	}
	for _, from := range allowedFrom {
		if stored.ClaimStatus == from {
			stored.ClaimStatus = to
			return true, nil
		}
	}
	return false, nil
}

func (m memItems) SetPotentialMarkedAt(id uint, ts time.Time) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.items[id]
	if !ok || stored.PotentialClaimerMarkedAt != nil {
		return false, nil
	}
	stored.PotentialClaimerMarkedAt = &ts
	return true, nil
}

func (m memItems) FinalizeReturn(item *models.FoundItem, claim *models.Claim, ret *models.SuccessfulReturn) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.items[item.ID]
	if !ok || stored.ClaimStatus != item.ClaimStatus {
		return gorm.ErrRecordNotFound
	}
	for _, existing := range m.s.claims {
		if existing.FoundItemID == claim.FoundItemID {
			return gorm.ErrDuplicatedKey
		}
	}
	claim.ID = m.s.id()
	m.s.claims[claim.ID] = claim
	ret.ClaimID = claim.ID
	m.s.returns = append(m.s.returns, *ret)
	for id, attempt := range m.s.attempts {
		if attempt.FoundItemID == item.ID {
			delete(m.s.attempts, id)
		}
	}
	delete(m.s.items, item.ID)
	return nil
}

func (m memItems) DeleteCascade(id uint, allowedFrom ...string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.items[id]
	if !ok {
		return false, nil
	}
	allowed := false
	for _, from := range allowedFrom {
		if stored.ClaimStatus == from {
			allowed = true
		}
	}
	if !allowed {
		return false, nil
	}
	delete(m.s.items, id)
	for aid, attempt := range m.s.attempts {
		if attempt.FoundItemID == id {
			delete(m.s.attempts, aid)
		}
	}
	return true, nil
}

type memAttempts struct{ s *memStore }

func (m memAttempts) Create(attempt *models.ClaimAttempt) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.attempts {
		if existing.FoundItemID == attempt.FoundItemID && existing.ClaimantIdentity == attempt.ClaimantIdentity {
			return repository.ErrDuplicateAttempt
		}
	}
	attempt.ID = m.s.id()
	stored := *attempt
	m.s.attempts[attempt.ID] = &stored
	return nil
}

func (m memAttempts) GetByID(id uint) (*models.ClaimAttempt, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	attempt := *stored
	return &attempt, nil
}

func (m memAttempts) GetByItemAndClaimant(itemID uint, claimantIdentity string) (*models.ClaimAttempt, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, stored := range m.s.attempts {
		if stored.FoundItemID == itemID && stored.ClaimantIdentity == claimantIdentity {
			attempt := *stored
			return &attempt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m memAttempts) ListByItem(itemID uint) ([]models.ClaimAttempt, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var attempts []models.ClaimAttempt
	for _, stored := range m.s.attempts {
		if stored.FoundItemID == itemID {
			attempts = append(attempts, *stored)
		}
	}
	sort.Slice(attempts, func(i, j int) bool { return attempts[i].ID < attempts[j].ID })
	return attempts, nil
}

func (m memAttempts) ListByClaimant(claimantIdentity string) ([]models.ClaimAttempt, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var attempts []models.ClaimAttempt
	for _, stored := range m.s.attempts {
		if stored.ClaimantIdentity == claimantIdentity {
			attempts = append(attempts, *stored)
		}
	}
	return attempts, nil
}

func (m memAttempts) SetMarkedAsPotential(id uint, ts time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.attempts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.MarkedAsPotentialAt = &ts
	return nil
}

type memClaims struct{ s *memStore }

func (m memClaims) Create(claim *models.Claim) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.claims {
		if existing.FoundItemID == claim.FoundItemID {
			return gorm.ErrDuplicatedKey
		}
	}
	claim.ID = m.s.id()
	stored := *claim
	m.s.claims[claim.ID] = &stored
	return nil
}

func (m memClaims) GetByID(id uint) (*models.Claim, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.claims[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	claim := *stored
	return &claim, nil
}

func (m memClaims) GetByFoundItemID(itemID uint) (*models.Claim, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, stored := range m.s.claims {
		if stored.FoundItemID == itemID {
			claim := *stored
			return &claim, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m memClaims) ListByParty(userID uint) ([]models.Claim, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var claims []models.Claim
	for _, stored := range m.s.claims {
		if stored.FinderUserID == userID || (stored.ClaimerUserID != nil && *stored.ClaimerUserID == userID) {
			claims = append(claims, *stored)
		}
	}
	return claims, nil
}

func (m memClaims) ResolvePending(id uint, status string, resolvedAt time.Time) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.claims[id]
	if !ok || stored.ResolutionStatus != models.ResolutionPending {
		return false, nil
	}
	stored.ResolutionStatus = status
	stored.ResolvedAt = &resolvedAt
	return true, nil
}

type memLost struct{ s *memStore }

func (m memLost) Create(item *models.LostItem) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	item.ID = m.s.id()
	stored := *item
	m.s.lost[item.ID] = &stored
	return nil
}

func (m memLost) GetByID(id uint) (*models.LostItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.lost[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	item := *stored
	return &item, nil
}

func (m memLost) ListByUser(userID uint) ([]models.LostItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var items []models.LostItem
	for _, stored := range m.s.lost {
		if stored.UserID == userID {
			items = append(items, *stored)
		}
	}
	return items, nil
}

func (m memLost) List(offset, limit int) ([]models.LostItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var items []models.LostItem
	for _, stored := range m.s.lost {
		items = append(items, *stored)
	}
	return items, nil
}

func (m memLost) MarkResolved(id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.lost[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.IsResolved = true
	return nil
}

func (m memLost) HasOpenMatch(userID uint, category, location string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if userID == 0 {
		return false, nil
	}
	for _, stored := range m.s.lost {
		if stored.UserID == userID && !stored.IsResolved &&
			stored.Category == category && stored.Location == location {
			return true, nil
		}
	}
	return false, nil
}

type memReports struct{ s *memStore }

func (m memReports) Create(report *models.AbuseReport) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.failReportCreate {
		return errors.New("report store unavailable")
	}
	report.ID = m.s.id()
	m.s.reports = append(m.s.reports, report)
	return nil
}

func (m memReports) GetByID(id uint) (*models.AbuseReport, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, stored := range m.s.reports {
		if stored.ID == id {
			return stored, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m memReports) ListOpen() ([]models.AbuseReport, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var reports []models.AbuseReport
	for _, stored := range m.s.reports {
		if stored.Status == models.ReportStatusOpen {
			reports = append(reports, *stored)
		}
	}
	return reports, nil
}

func (m memReports) ListRecentClosed(limit int) ([]models.AbuseReport, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var reports []models.AbuseReport
	for _, stored := range m.s.reports {
		if stored.Status != models.ReportStatusOpen {
			reports = append(reports, *stored)
		}
	}
	return reports, nil
}

func (m memReports) Resolve(id uint, byUserID uint, status string, notes string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, stored := range m.s.reports {
		if stored.ID == id {
			now := m.s.clk.Now()
			stored.Status = status
			stored.ModeratorNotes = notes
			stored.ResolvedByID = &byUserID
			stored.ResolvedAt = &now
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// recordingNotifier counts lifecycle events and remembers the last payloads.
type recordingNotifier struct {
	verified  int
	marked    int
	finalized int
	disputed  int

	lastVerifiedAttempt *models.ClaimAttempt
	lastFinalizedClaim  *models.Claim
	lastDisputedClaim   *models.Claim
}

func (n *recordingNotifier) AttemptVerified(item *models.FoundItem, attempt *models.ClaimAttempt) {
	n.verified++
	n.lastVerifiedAttempt = attempt
}

func (n *recordingNotifier) PotentialClaimerMarked(item *models.FoundItem, attempt *models.ClaimAttempt) {
	n.marked++
}

func (n *recordingNotifier) ClaimFinalized(claim *models.Claim) {
	n.finalized++
	n.lastFinalizedClaim = claim
}

func (n *recordingNotifier) ClaimDisputed(claim *models.Claim) {
	n.disputed++
	n.lastDisputedClaim = claim
}

// testEnv bundles the engine with its fakes and the manual clock.
type testEnv struct {
	engine   *Engine
	store    *memStore
	clock    *clock.Manual
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clk := &clock.Manual{T: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := newMemStore(clk)
	notifier := &recordingNotifier{}
	engine := New(DefaultConfig(), clk, Deps{
		Items:    memItems{store},
		Attempts: memAttempts{store},
		Claims:   memClaims{store},
		Lost:     memLost{store},
		Reports:  memReports{store},
		Notifier: notifier,
	})
	return &testEnv{engine: engine, store: store, clock: clk, notifier: notifier}
}

// seedItem creates a found item with three standard questions where choice 0
// is always correct.
func (env *testEnv) seedItem(t *testing.T, finderID uint) *models.FoundItem {
	t.Helper()
	item := &models.FoundItem{
		FinderID: finderID,
		Finder: models.User{
			ID:          finderID,
			Name:        "Frida Finder",
			Email:       "frida@campus.test",
			PhoneNumber: "+49123456",
		},
		Title:    "Black leather wallet",
		Category: "wallet",
		Location: "library",
		FoundAt:  env.clock.Now(),
	}
	questions := []QuestionInput{
		{Text: "What brand is it?", Choices: []string{"Acme", "Globex", "Initech"}, CorrectIdx: 0},
		{Text: "What is inside?", Choices: []string{"Photos", "Coins", "Nothing"}, CorrectIdx: 0},
		{Text: "What color is the lining?", Choices: []string{"Red", "Blue"}, CorrectIdx: 0},
	}
	if err := env.engine.CreateFoundItem(item, questions); err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

// correctAnswers builds an all-correct answer set for the seeded item.
func correctAnswers(item *models.FoundItem) models.AnswerSet {
	answers := models.AnswerSet{}
	for _, q := range item.Questions {
		answers[q.ID] = 0
	}
	return answers
}

// partialAnswers answers the first n questions correctly and the rest wrong.
func partialAnswers(item *models.FoundItem, n int) models.AnswerSet {
	answers := models.AnswerSet{}
	for i, q := range item.Questions {
		if i < n {
			answers[q.ID] = 0
		} else {
			answers[q.ID] = 1
		}
	}
	return answers
}
