package services

import (
	"testing"

	"hydrohub_backend/internal/models"
	"hydrohub_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeCustomerRepo struct {
	customers      map[int64]*models.Customer
	addresses      map[int64]*models.CustomerAddress
	nextCustomerID int64
	nextAddressID  int64
}

var _ repositories.CustomerRepository = (*fakeCustomerRepo)(nil)

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		customers: map[int64]*models.Customer{},
		addresses: map[int64]*models.CustomerAddress{},
	}
}

func (f *fakeCustomerRepo) Create(_ repositories.SQLExecutor, customer *models.Customer) (int64, error) {
	for _, existing := range f.customers {
		if existing.Email == customer.Email {
			return 0, repositories.ErrDuplicateKey
		}
	}
	f.nextCustomerID++
	customer.CustomerID = f.nextCustomerID
	f.customers[customer.CustomerID] = customer
	return customer.CustomerID, nil
}

func (f *fakeCustomerRepo) GetByID(id int64) (*models.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return customer, nil
}

func (f *fakeCustomerRepo) GetByEmail(email string) (*models.Customer, error) {
	for _, customer := range f.customers {
		if customer.Email == email {
			return customer, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCustomerRepo) EmailExists(_ repositories.SQLExecutor, email string) (bool, error) {
	_, err := f.GetByEmail(email)
	return err == nil, nil
}

func (f *fakeCustomerRepo) UpdatePartial(_ repositories.SQLExecutor, id int64, firstName, lastName, email, phoneNumber, passwordHash, status *string) (*models.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if email != nil {
		for otherID, other := range f.customers {
			if otherID != id && other.Email == *email {
				return nil, repositories.ErrDuplicateKey
			}
		}
		customer.Email = *email
	}
	if firstName != nil {
		customer.FirstName = *firstName
	}
	if lastName != nil {
		customer.LastName = *lastName
	}
	if phoneNumber != nil {
		customer.PhoneNumber = *phoneNumber
	}
	if passwordHash != nil {
		customer.PasswordHash = *passwordHash
	}
	if status != nil {
		customer.Status = *status
	}
	return customer, nil
}

func (f *fakeCustomerRepo) ListAddresses(customerID int64) ([]models.CustomerAddress, error) {
	var out []models.CustomerAddress
	for _, address := range f.addresses {
		if address.CustomerID == customerID {
			out = append(out, *address)
		}
	}
	return out, nil
}

func (f *fakeCustomerRepo) GetDefaultAddress(customerID int64) (*models.CustomerAddress, error) {
	for _, address := range f.addresses {
		if address.CustomerID == customerID && address.IsDefault {
			return address, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCustomerRepo) CreateAddress(_ repositories.SQLExecutor, address *models.CustomerAddress) (int64, error) {
	f.nextAddressID++
	address.AddressID = f.nextAddressID
	f.addresses[address.AddressID] = address
	return address.AddressID, nil
}

func (f *fakeCustomerRepo) UpdateAddress(_ repositories.SQLExecutor, address *models.CustomerAddress) error {
	existing, ok := f.addresses[address.AddressID]
	if !ok || existing.CustomerID != address.CustomerID {
		return repositories.ErrNotFound
	}
	f.addresses[address.AddressID] = address
	return nil
}

func (f *fakeCustomerRepo) DeleteAddress(_ repositories.SQLExecutor, customerID, addressID int64) error {
	existing, ok := f.addresses[addressID]
	if !ok || existing.CustomerID != customerID {
		return repositories.ErrNotFound
	}
	delete(f.addresses, addressID)
	return nil
}

func (f *fakeCustomerRepo) ClearDefaultAddress(_ repositories.SQLExecutor, customerID int64) error {
	for _, address := range f.addresses {
		if address.CustomerID == customerID {
			address.IsDefault = false
		}
	}
	return nil
}

func (f *fakeCustomerRepo) SetDefaultAddress(_ repositories.SQLExecutor, customerID, addressID int64) error {
	existing, ok := f.addresses[addressID]
	if !ok || existing.CustomerID != customerID {
		return repositories.ErrNotFound
	}
	existing.IsDefault = true
	return nil
}

type customerFixture struct {
	service CustomerService
	repo    *fakeCustomerRepo
	mock    sqlmock.Sqlmock
}

func newCustomerFixture(t *testing.T) *customerFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newFakeCustomerRepo()
	return &customerFixture{
		service: NewCustomerService(repo, db),
		repo:    repo,
		mock:    mock,
	}
}

func (fx *customerFixture) register(t *testing.T, email string) *models.Customer {
	t.Helper()
	customer, err := fx.service.Register(RegisterCustomerRequest{
		FirstName:   "Maria",
		LastName:    "Santos",
		Email:       email,
		PhoneNumber: "09170000001",
		Password:    "correct-horse",
	})
	require.NoError(t, err)
	return customer
}

func TestRegisterNormalizesEmailAndHashesPassword(t *testing.T) {
	fx := newCustomerFixture(t)

	customer, err := fx.service.Register(RegisterCustomerRequest{
		FirstName:   "Maria",
		LastName:    "Santos",
		Email:       "  Maria.Santos@Example.COM ",
		PhoneNumber: "09170000001",
		Password:    "correct-horse",
	})
	require.NoError(t, err)

	assert.Equal(t, "maria.santos@example.com", customer.Email)
	assert.Equal(t, models.StatusActive, customer.Status)
	assert.NotEqual(t, "correct-horse", customer.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte("correct-horse")))
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	fx := newCustomerFixture(t)
	fx.register(t, "maria@example.com")

	_, err := fx.service.Register(RegisterCustomerRequest{
		FirstName:   "Other",
		LastName:    "Person",
		Email:       "MARIA@example.com",
		PhoneNumber: "09170000002",
		Password:    "another-pass",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCustomerLoginIssuesCustomerRole(t *testing.T) {
	fx := newCustomerFixture(t)
	fx.register(t, "maria@example.com")

	resp, err := fx.service.Login(CustomerLoginRequest{Email: "Maria@Example.com", Password: "correct-horse"})
	require.NoError(t, err)

	assert.Equal(t, "customer", resp.Role)
	assert.NotEmpty(t, resp.Token)
}

func TestCustomerLoginRejectsWrongPasswordAndInactive(t *testing.T) {
	fx := newCustomerFixture(t)
	customer := fx.register(t, "maria@example.com")

	_, err := fx.service.Login(CustomerLoginRequest{Email: "maria@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	customer.Status = models.StatusInactive
	_, err = fx.service.Login(CustomerLoginRequest{Email: "maria@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetProfileAttachesDefaultAddress(t *testing.T) {
	fx := newCustomerFixture(t)
	customer := fx.register(t, "maria@example.com")

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	address, err := fx.service.AddAddress(customer.CustomerID, AddressRequest{
		Address:   "123 Mabini St",
		IsDefault: true,
	})
	require.NoError(t, err)

	profile, err := fx.service.GetProfile(customer.CustomerID)
	require.NoError(t, err)
	require.NotNil(t, profile.DefaultAddress)
	assert.Equal(t, address.AddressID, profile.DefaultAddress.AddressID)
}

func TestGetProfileWithoutAddresses(t *testing.T) {
	fx := newCustomerFixture(t)
	customer := fx.register(t, "maria@example.com")

	profile, err := fx.service.GetProfile(customer.CustomerID)
	require.NoError(t, err)
	assert.Nil(t, profile.DefaultAddress)
}

func TestAddAddressDemotesPreviousDefault(t *testing.T) {
	fx := newCustomerFixture(t)
	customer := fx.register(t, "maria@example.com")

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	first, err := fx.service.AddAddress(customer.CustomerID, AddressRequest{Address: "123 Mabini St", IsDefault: true})
	require.NoError(t, err)

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	second, err := fx.service.AddAddress(customer.CustomerID, AddressRequest{Address: "456 Rizal Ave", IsDefault: true})
	require.NoError(t, err)

	assert.False(t, fx.repo.addresses[first.AddressID].IsDefault)
	assert.True(t, fx.repo.addresses[second.AddressID].IsDefault)
}

func TestSetDefaultAddressKeepsSingleDefault(t *testing.T) {
	fx := newCustomerFixture(t)
	customer := fx.register(t, "maria@example.com")

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	first, err := fx.service.AddAddress(customer.CustomerID, AddressRequest{Address: "123 Mabini St", IsDefault: true})
	require.NoError(t, err)

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	second, err := fx.service.AddAddress(customer.CustomerID, AddressRequest{Address: "456 Rizal Ave"})
	require.NoError(t, err)

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	require.NoError(t, fx.service.SetDefaultAddress(customer.CustomerID, second.AddressID))

	defaults := 0
	for _, address := range fx.repo.addresses {
		if address.IsDefault {
			defaults++
			assert.Equal(t, second.AddressID, address.AddressID)
		}
	}
	assert.Equal(t, 1, defaults)
	assert.False(t, fx.repo.addresses[first.AddressID].IsDefault)
}

func TestSetDefaultAddressRejectsForeignAddress(t *testing.T) {
	fx := newCustomerFixture(t)
	maria := fx.register(t, "maria@example.com")
	jose, err := fx.service.Register(RegisterCustomerRequest{
		FirstName:   "Jose",
		LastName:    "Reyes",
		Email:       "jose@example.com",
		PhoneNumber: "09170000003",
		Password:    "another-pass",
	})
	require.NoError(t, err)

	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
	address, err := fx.service.AddAddress(jose.CustomerID, AddressRequest{Address: "789 Bonifacio St"})
	require.NoError(t, err)

	fx.mock.ExpectBegin()
	fx.mock.ExpectRollback()
	err = fx.service.SetDefaultAddress(maria.CustomerID, address.AddressID)
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestUpdateProfileNormalizesEmail(t *testing.T) {
	fx := newCustomerFixture(t)
	customer := fx.register(t, "maria@example.com")

	newEmail := " Maria.New@Example.COM "
	updated, err := fx.service.UpdateProfile(customer.CustomerID, UpdateCustomerRequest{Email: &newEmail})
	require.NoError(t, err)
	assert.Equal(t, "maria.new@example.com", updated.Email)
}

func TestDeleteAddressUnknownID(t *testing.T) {
	fx := newCustomerFixture(t)
	customer := fx.register(t, "maria@example.com")

	err := fx.service.DeleteAddress(customer.CustomerID, 999)
	assert.ErrorIs(t, err, ErrAddressNotFound)
}
