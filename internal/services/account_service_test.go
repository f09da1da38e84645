package services

import (
	"strings"
	"testing"

	"hydrohub_backend/internal/models"
	"hydrohub_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAccountRepo struct {
	admins       map[int64]*models.Administrator
	owners       map[int64]*models.Owner
	latestAdmin  string
	latestOwner  string
	adminPhones  map[string]bool
	ownerPhones  map[string]bool
	nextAdminID  int64
	nextOwnerID  int64
}

var _ repositories.AccountRepository = (*fakeAccountRepo)(nil)

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		admins:      map[int64]*models.Administrator{},
		owners:      map[int64]*models.Owner{},
		adminPhones: map[string]bool{},
		ownerPhones: map[string]bool{},
	}
}

func (f *fakeAccountRepo) CreateAdmin(_ repositories.SQLExecutor, admin *models.Administrator) (int64, error) {
	f.nextAdminID++
	admin.AdminID = f.nextAdminID
	f.admins[admin.AdminID] = admin
	return admin.AdminID, nil
}

func (f *fakeAccountRepo) GetAdminByID(id int64) (*models.Administrator, error) {
	admin, ok := f.admins[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return admin, nil
}

func (f *fakeAccountRepo) GetAdminByUsername(username string) (*models.Administrator, error) {
	for _, admin := range f.admins {
		if admin.Username == username {
			return admin, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAccountRepo) AdminPhoneExists(_ repositories.SQLExecutor, phone string) (bool, error) {
	return f.adminPhones[phone], nil
}

func (f *fakeAccountRepo) LatestAdminUsername(_ repositories.SQLExecutor) (string, error) {
	return f.latestAdmin, nil
}

func (f *fakeAccountRepo) UpdateAdminPartial(_ repositories.SQLExecutor, id int64, firstName, lastName, phoneNumber, passwordHash *string) error {
	admin, ok := f.admins[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if firstName != nil {
		admin.FirstName = *firstName
	}
	if lastName != nil {
		admin.LastName = *lastName
	}
	if phoneNumber != nil {
		admin.PhoneNumber = *phoneNumber
	}
	if passwordHash != nil {
		admin.PasswordHash = *passwordHash
	}
	return nil
}

func (f *fakeAccountRepo) CreateOwner(_ repositories.SQLExecutor, owner *models.Owner) (int64, error) {
	f.nextOwnerID++
	owner.OwnerID = f.nextOwnerID
	f.owners[owner.OwnerID] = owner
	return owner.OwnerID, nil
}

func (f *fakeAccountRepo) GetOwnerByID(id int64) (*models.Owner, error) {
	owner, ok := f.owners[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return owner, nil
}

func (f *fakeAccountRepo) GetOwnerByUsername(username string) (*models.Owner, error) {
	for _, owner := range f.owners {
		if owner.Username == username {
			return owner, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAccountRepo) OwnerPhoneExists(_ repositories.SQLExecutor, phone string) (bool, error) {
	return f.ownerPhones[phone], nil
}

func (f *fakeAccountRepo) LatestOwnerUsername(_ repositories.SQLExecutor) (string, error) {
	return f.latestOwner, nil
}

func (f *fakeAccountRepo) UpdateOwnerPartial(_ repositories.SQLExecutor, id int64, firstName, lastName, phoneNumber, passwordHash *string) error {
	owner, ok := f.owners[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if firstName != nil {
		owner.FirstName = *firstName
	}
	if lastName != nil {
		owner.LastName = *lastName
	}
	if phoneNumber != nil {
		owner.PhoneNumber = *phoneNumber
	}
	if passwordHash != nil {
		owner.PasswordHash = *passwordHash
	}
	return nil
}

type fakeStationRepo struct {
	stations map[string]int64
	byID     map[int64]*models.Station
	nextID   int64
}

var _ repositories.StationRepository = (*fakeStationRepo)(nil)

func newFakeStationRepo() *fakeStationRepo {
	return &fakeStationRepo{stations: map[string]int64{}, byID: map[int64]*models.Station{}}
}

func (f *fakeStationRepo) FindOrCreateByName(_ repositories.SQLExecutor, name string) (int64, error) {
	if id, ok := f.stations[name]; ok {
		return id, nil
	}
	f.nextID++
	f.stations[name] = f.nextID
	f.byID[f.nextID] = &models.Station{StationID: f.nextID, StationName: name, Status: models.StatusActive}
	return f.nextID, nil
}

func (f *fakeStationRepo) GetByID(id int64) (*models.Station, error) {
	station, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return station, nil
}

func (f *fakeStationRepo) ListActive() ([]models.Station, error) {
	out := []models.Station{}
	for _, s := range f.byID {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStationRepo) UpdateProfile(_ repositories.SQLExecutor, station *models.Station) (*models.Station, error) {
	existing, ok := f.byID[station.StationID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if station.StationName != "" {
		existing.StationName = station.StationName
	}
	return existing, nil
}

func accountFixture(t *testing.T) (AccountService, *fakeAccountRepo, *fakeStaffRepo, *fakeStationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	accountRepo := newFakeAccountRepo()
	staffRepo := newFakeStaffRepo()
	stationRepo := newFakeStationRepo()
	svc := NewAccountService(accountRepo, staffRepo, stationRepo, db)
	return svc, accountRepo, staffRepo, stationRepo, mock
}

func TestNextUsername(t *testing.T) {
	tests := []struct {
		prefix string
		latest string
		want   string
	}{
		{"admin", "", "admin000001"},
		{"admin", "admin000001", "admin000002"},
		{"admin", "admin000099", "admin000100"},
		{"delacruz", "reyes000007", "delacruz000008"},
		{"onsite", "onsite999999", "onsite1000000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nextUsername(tt.prefix, tt.latest), "prefix=%s latest=%s", tt.prefix, tt.latest)
	}
}

func TestUsernamePrefix(t *testing.T) {
	assert.Equal(t, "delacruz", usernamePrefix("Dela Cruz"))
	assert.Equal(t, "oconnor", usernamePrefix("O'Connor"))
	assert.Equal(t, "", usernamePrefix("123"))
}

func TestCreateAdminGeneratesSequentialUsername(t *testing.T) {
	svc, accountRepo, _, _, mock := accountFixture(t)
	accountRepo.latestAdmin = "admin000041"
	mock.ExpectBegin()
	mock.ExpectCommit()

	admin, err := svc.CreateAdmin(CreateAdminRequest{
		FirstName:   "Maria",
		LastName:    "Santos",
		Gender:      "Female",
		PhoneNumber: "09170000001",
		Password:    "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin000042", admin.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("correct horse")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAdminRejectsDuplicatePhone(t *testing.T) {
	svc, accountRepo, _, _, mock := accountFixture(t)
	accountRepo.adminPhones["09170000001"] = true
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.CreateAdmin(CreateAdminRequest{
		FirstName:   "Maria",
		LastName:    "Santos",
		Gender:      "Female",
		PhoneNumber: "09170000001",
		Password:    "correct horse",
	})
	assert.ErrorIs(t, err, ErrPhoneTaken)
	assert.Empty(t, accountRepo.admins)
}

func TestCreateOwnerFindsOrCreatesStation(t *testing.T) {
	svc, _, _, stationRepo, mock := accountFixture(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	first, err := svc.CreateOwner(CreateOwnerRequest{
		StationName: "AquaPure Station",
		FirstName:   "Juan",
		LastName:    "Dela Cruz",
		Gender:      "Male",
		PhoneNumber: "09170000002",
		Password:    "correct horse",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.Username, "delacruz"))
	assert.Equal(t, models.StatusActive, first.Status)

	// A second owner for the same station name reuses the station row.
	second, err := svc.CreateOwner(CreateOwnerRequest{
		StationName: "AquaPure Station",
		FirstName:   "Ana",
		LastName:    "Reyes",
		Gender:      "Female",
		PhoneNumber: "09170000003",
		Password:    "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, first.StationID, second.StationID)
	assert.Len(t, stationRepo.byID, 1)
}

func TestCreateStaffUsesTypeAsUsernamePrefix(t *testing.T) {
	svc, _, staffRepo, stationRepo, mock := accountFixture(t)
	stationID, err := stationRepo.FindOrCreateByName(nil, "AquaPure Station")
	require.NoError(t, err)
	staffRepo.latest = "onsite000009"
	mock.ExpectBegin()
	mock.ExpectCommit()

	staff, err := svc.CreateStaff(CreateStaffRequest{
		StationID:   stationID,
		FirstName:   "Pedro",
		LastName:    "Garcia",
		Gender:      "Male",
		PhoneNumber: "09170000004",
		Type:        "onsite",
		Password:    "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StaffTypeOnsite, staff.Type)
	assert.Equal(t, "onsite000010", staff.Username)
	assert.Equal(t, models.StatusActive, staff.Status)
}

func TestCreateStaffRejectsUnknownType(t *testing.T) {
	svc, _, staffRepo, _, _ := accountFixture(t)

	_, err := svc.CreateStaff(CreateStaffRequest{
		StationID:   1,
		FirstName:   "Pedro",
		LastName:    "Garcia",
		Gender:      "Male",
		PhoneNumber: "09170000004",
		Type:        "courier",
		Password:    "correct horse",
	})
	assert.ErrorIs(t, err, ErrUnknownStaffType)
	assert.Empty(t, staffRepo.created)
}

func TestToggleStaffStatusFlips(t *testing.T) {
	svc, _, staffRepo, _, _ := accountFixture(t)
	staffRepo.staff[5] = &models.StaffMember{StaffID: 5, Status: models.StatusActive}

	staff, err := svc.ToggleStaffStatus(5)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, staff.Status)

	staff, err = svc.ToggleStaffStatus(5)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, staff.Status)
}
