package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/studyshare/internal/common"
	"github.com/dmitrijs2005/studyshare/internal/dbx"
	"github.com/dmitrijs2005/studyshare/internal/logging"
	"github.com/dmitrijs2005/studyshare/internal/server/config"
	"github.com/dmitrijs2005/studyshare/internal/server/models"
	"github.com/dmitrijs2005/studyshare/internal/server/otp"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/documents"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/members"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/subscriptions"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- repositories ---

type fakeManager struct {
	members *fakeMembers
	docs    *fakeDocs
	catalog *fakeCatalog
	subs    *fakeSubs
	notes   *fakeNotes
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		members: &fakeMembers{byID: map[string]*models.Member{}},
		docs:    &fakeDocs{byID: map[string]*models.Document{}},
		catalog: &fakeCatalog{faculties: map[string]models.Faculty{}, subjects: map[string]models.Subject{}},
		subs:    &fakeSubs{set: map[string]models.Target{}},
		notes:   &fakeNotes{devices: map[string][]models.DeviceToken{}},
	}
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeManager) Members(dbx.DBTX) members.Repository { return m.members }
func (m *fakeManager) Documents(dbx.DBTX) documents.Repository { return m.docs }
func (m *fakeManager) Catalog(dbx.DBTX) catalog.Repository { return m.catalog }
func (m *fakeManager) Subscriptions(dbx.DBTX) subscriptions.Repository { return m.subs }
func (m *fakeManager) Notifications(dbx.DBTX) notifications.Repository { return m.notes }

type fakeMembers struct {
	mu   sync.Mutex
	byID map[string]*models.Member
}

func (f *fakeMembers) add(m models.Member) *models.Member {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Role == "" {
		m.Role = models.RoleUser
	}
	if m.Status == "" {
		m.Status = models.MemberActive
	}
	if m.BanStatus == "" {
		m.BanStatus = models.BanStatusNone
	}
	f.byID[m.ID] = &m
	return &m
}

func (f *fakeMembers) Create(ctx context.Context, m *models.Member) (*models.Member, error) {
	if _, err := f.GetByEmail(ctx, m.Email); err == nil {
		return nil, common.ErrorAlreadyExists
	}
	m.Status = models.MemberUnverified
	return f.add(*m), nil
}

func (f *fakeMembers) GetByID(_ context.Context, id string) (*models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *m
	return &c, nil
}

func (f *fakeMembers) GetByEmail(_ context.Context, email string) (*models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.byID {
		if strings.EqualFold(m.Email, email) {
			c := *m
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeMembers) update(id string, fn func(m *models.Member)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(m)
	return nil
}

func (f *fakeMembers) SetStatus(_ context.Context, id string, status models.MemberStatus) error {
	return f.update(id, func(m *models.Member) { m.Status = status })
}

func (f *fakeMembers) SetPasswordHash(_ context.Context, id, hash string) error {
	return f.update(id, func(m *models.Member) { m.PasswordHash = hash })
}

func (f *fakeMembers) SetBanStatus(_ context.Context, id string, status models.BanStatus) error {
	return f.update(id, func(m *models.Member) { m.BanStatus = status })
}

func (f *fakeMembers) UpdateProfile(_ context.Context, id string, upd models.ProfileUpdate) error {
	return f.update(id, func(m *models.Member) {
		if upd.FullName != nil {
			m.FullName = *upd.FullName
		}
		if upd.Bio != nil {
			m.Bio = *upd.Bio
		}
		if upd.AvatarURL != nil {
			m.AvatarURL = *upd.AvatarURL
		}
	})
}

func (f *fakeMembers) Profile(ctx context.Context, id, _ string) (*models.MemberProfile, error) {
	m, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.MemberProfile{Member: *m}, nil
}

func (f *fakeMembers) List(ctx context.Context) ([]models.AdminMember, error) {
	f.mu.Lock()
	ids := make([]string, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	f.mu.Unlock()
	sort.Strings(ids)

	out := []models.AdminMember{}
	for _, id := range ids {
		a, _ := f.AdminGet(ctx, id)
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeMembers) AdminGet(ctx context.Context, id string) (*models.AdminMember, error) {
	m, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.AdminMember{ID: m.ID, Email: m.Email, FullName: m.FullName, Role: m.Role, BanStatus: m.BanStatus}, nil
}

func (f *fakeMembers) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID), nil
}

type fakeDocs struct {
	mu        sync.Mutex
	byID      map[string]*models.Document
	seq       int
	setErr    error
	incErr    error
}

func (f *fakeDocs) add(d models.Document) *models.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	f.seq++
	d.CreatedAt = time.Unix(int64(f.seq), 0)
	f.byID[d.ID] = &d
	return &d
}

func (f *fakeDocs) Create(_ context.Context, d *models.Document) (*models.Document, error) {
	return f.add(*d), nil
}

func (f *fakeDocs) GetByID(_ context.Context, id string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *d
	return &c, nil
}

func (f *fakeDocs) match(fl models.DocumentFilter) []models.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Document{}
	for _, d := range f.byID {
		if fl.Status != "" && d.Status != fl.Status ||
			fl.FacultyID != "" && d.FacultyID != fl.FacultyID ||
			fl.SubjectID != "" && d.SubjectID != fl.SubjectID ||
			fl.UploaderID != "" && d.UploaderID != fl.UploaderID ||
			fl.Keyword != "" && !strings.Contains(strings.ToLower(d.Title), strings.ToLower(fl.Keyword)) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeDocs) List(_ context.Context, fl models.DocumentFilter, page models.PageRequest) ([]models.Document, int, error) {
	all := f.match(fl)
	start := min(page.Offset(), len(all))
	end := min(start+page.Limit, len(all))
	return all[start:end], len(all), nil
}

func (f *fakeDocs) All(_ context.Context, fl models.DocumentFilter) ([]models.Document, error) {
	return f.match(fl), nil
}

func (f *fakeDocs) TitleSuggestions(_ context.Context, keyword string, limit int) ([]string, error) {
	out := []string{}
	for _, d := range f.match(models.DocumentFilter{Status: models.DocumentActive, Keyword: keyword}) {
		out = append(out, d.Title)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeDocs) SetStatus(_ context.Context, id string, status models.DocumentStatus) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	d.Status = status
	return nil
}

func (f *fakeDocs) IncrementDownloads(_ context.Context, id string) error {
	if f.incErr != nil {
		return f.incErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	d.DownloadCount++
	return nil
}

func (f *fakeDocs) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeDocs) CountByStatus(_ context.Context, status models.DocumentStatus) (int, error) {
	return len(f.match(models.DocumentFilter{Status: status})), nil
}

type fakeCatalog struct {
	faculties map[string]models.Faculty
	subjects  map[string]models.Subject
}

func (f *fakeCatalog) Faculties(context.Context) ([]models.Faculty, error) {
	out := []models.Faculty{}
	for _, fc := range f.faculties {
		out = append(out, fc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCatalog) FacultyInfo(_ context.Context, id, _ string) (*models.FacultyInfo, error) {
	fc, ok := f.faculties[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.FacultyInfo{Faculty: fc}, nil
}

func (f *fakeCatalog) Subjects(_ context.Context, facultyID, _ string) ([]models.Subject, error) {
	out := []models.Subject{}
	for _, s := range f.subjects {
		if facultyID == "" || s.FacultyID == facultyID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCatalog) SubjectInfo(_ context.Context, id, _ string) (*models.Subject, error) {
	s, ok := f.subjects[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &s, nil
}

func (f *fakeCatalog) SearchSubjects(_ context.Context, keyword string, limit int) ([]models.Subject, error) {
	out := []models.Subject{}
	for _, s := range f.subjects {
		if strings.Contains(strings.ToLower(s.Name), strings.ToLower(strings.TrimSpace(keyword))) {
			out = append(out, s)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCatalog) FacultyExists(_ context.Context, id string) (bool, error) {
	_, ok := f.faculties[id]
	return ok, nil
}

type fakeSubs struct {
	mu  sync.Mutex
	set map[string]models.Target
}

func subKey(memberID string, t models.Target) string {
	return memberID + "|" + string(t.Type) + "|" + t.ID
}

func (f *fakeSubs) Subscribe(_ context.Context, memberID string, t models.Target) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set[subKey(memberID, t)] = t
	return nil
}

func (f *fakeSubs) Unsubscribe(_ context.Context, memberID string, t models.Target) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.set, subKey(memberID, t))
	return nil
}

func (f *fakeSubs) Followers(_ context.Context, targets ...models.Target) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for k, t := range f.set {
		member := strings.SplitN(k, "|", 2)[0]
		for _, want := range targets {
			if t == want && !seen[member] {
				seen[member] = true
				out = append(out, member)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

type fakeNotes struct {
	mu        sync.Mutex
	items     []*models.Notification
	devices   map[string][]models.DeviceToken
	devErr    error
	createErr error
}

func (f *fakeNotes) Create(_ context.Context, n *models.Notification) (*models.Notification, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	c := *n
	f.items = append(f.items, &c)
	return n, nil
}

func (f *fakeNotes) forMember(memberID string) []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Notification{}
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].MemberID == memberID {
			out = append(out, *f.items[i])
		}
	}
	return out
}

func (f *fakeNotes) List(_ context.Context, memberID string, page models.PageRequest) ([]models.Notification, int, error) {
	all := f.forMember(memberID)
	start := min(page.Offset(), len(all))
	end := min(start+page.Limit, len(all))
	return all[start:end], len(all), nil
}

func (f *fakeNotes) MarkRead(_ context.Context, id, memberID string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.items {
		if n.ID == id && n.MemberID == memberID {
			n.IsRead = true
			c := *n
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeNotes) UpsertDevice(_ context.Context, d *models.DeviceToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.devices[d.MemberID] = append(f.devices[d.MemberID], *d)
	return nil
}

func (f *fakeNotes) Devices(_ context.Context, memberID string) ([]models.DeviceToken, error) {
	if f.devErr != nil {
		return nil, f.devErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.devices[memberID], nil
}

// --- collaborators ---

type sentCode struct {
	email   string
	purpose otp.Purpose
	code    string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentCode
}

func (f *fakeSender) SendCode(_ context.Context, email string, p otp.Purpose, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentCode{email: email, purpose: p, code: code})
	return nil
}

func (f *fakeSender) last(t *testing.T) sentCode {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent, "no code sent")
	return f.sent[len(f.sent)-1]
}

type fakePresigner struct {
	putKey string
	getKey string
	err    error
}

func (f *fakePresigner) PresignPut(_ context.Context, key, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.putKey = key
	return "http://s3/put/" + key, nil
}

func (f *fakePresigner) PresignGet(_ context.Context, key, _ string) (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	f.getKey = key
	return "http://s3/get/" + key, time.Now().Add(15 * time.Minute), nil
}

type fakePush struct {
	mu     sync.Mutex
	pushed map[string]int
	err    error
}

func (f *fakePush) Push(_ context.Context, devices []models.DeviceToken, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushed == nil {
		f.pushed = map[string]int{}
	}
	f.pushed[n.MemberID] += len(devices)
	return f.err
}

// --- wiring ---

var errBoom = errors.New("boom")

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:      "test-secret",
		AccessTokenTTL: time.Hour,
		OTPTTL:         10 * time.Minute,
		ResetTokenTTL:  15 * time.Minute,
		BcryptCost:     bcrypt.MinCost,
	}
}

func newCodeStore(t *testing.T) (*otp.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := otp.NewClient(otp.Config{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return otp.NewRedisStore(rdb, logging.Nop()), mr
}

// newTxDB returns a sqlmock database for services that open transactions.
func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}
