package services

// In-memory repository fakes used by the service tests. They mirror the
// observable behavior of the Postgres implementations: availability is a
// signed fold over the stored movements, scoped to a station through the
// recording staff member.

import (
	"strings"

	"hydrohub_backend/internal/models"
	"hydrohub_backend/internal/repositories"
)

var (
	_ repositories.StaffRepository   = (*fakeStaffRepo)(nil)
	_ repositories.ProductRepository = (*fakeProductRepo)(nil)
	_ repositories.StockRepository   = (*fakeStockRepo)(nil)
	_ repositories.SaleRepository    = (*fakeSaleRepo)(nil)
)

// --- staff fake ---

type fakeStaffRepo struct {
	stations map[int64]int64 // staff ID -> station ID
	staff    map[int64]*models.StaffMember
	latest   string
	created  []*models.StaffMember
	phones   map[string]bool
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{
		stations: map[int64]int64{},
		staff:    map[int64]*models.StaffMember{},
		phones:   map[string]bool{},
	}
}

func (f *fakeStaffRepo) assign(staffID, stationID int64) {
	f.stations[staffID] = stationID
}

func (f *fakeStaffRepo) StationIDByStaff(staffID int64) (int64, error) {
	stationID, ok := f.stations[staffID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	return stationID, nil
}

func (f *fakeStaffRepo) CreateStaff(_ repositories.SQLExecutor, staff *models.StaffMember) (int64, error) {
	staff.StaffID = int64(len(f.created) + 1)
	f.created = append(f.created, staff)
	f.staff[staff.StaffID] = staff
	f.stations[staff.StaffID] = staff.StationID
	return staff.StaffID, nil
}

func (f *fakeStaffRepo) GetStaffByID(id int64) (*models.StaffMember, error) {
	staff, ok := f.staff[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return staff, nil
}

func (f *fakeStaffRepo) GetActiveStaffByUsername(username string) (*models.StaffMember, error) {
	for _, staff := range f.staff {
		if staff.Username == username && staff.Status == models.StatusActive {
			return staff, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeStaffRepo) StaffPhoneExists(_ repositories.SQLExecutor, phone string) (bool, error) {
	return f.phones[phone], nil
}

func (f *fakeStaffRepo) LatestStaffUsername(_ repositories.SQLExecutor) (string, error) {
	return f.latest, nil
}

func (f *fakeStaffRepo) UpdateStaffPartial(_ repositories.SQLExecutor, id int64, firstName, lastName, phoneNumber, passwordHash *string) error {
	staff, ok := f.staff[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if firstName != nil {
		staff.FirstName = *firstName
	}
	if lastName != nil {
		staff.LastName = *lastName
	}
	if phoneNumber != nil {
		staff.PhoneNumber = *phoneNumber
	}
	if passwordHash != nil {
		staff.PasswordHash = *passwordHash
	}
	return nil
}

func (f *fakeStaffRepo) ListStaff(stationID *int64) ([]models.StaffMember, error) {
	out := []models.StaffMember{}
	for _, staff := range f.staff {
		if stationID == nil || staff.StationID == *stationID {
			out = append(out, *staff)
		}
	}
	return out, nil
}

func (f *fakeStaffRepo) ToggleStaffStatus(_ repositories.SQLExecutor, id int64) (*models.StaffMember, error) {
	staff, ok := f.staff[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if staff.Status == models.StatusActive {
		staff.Status = models.StatusInactive
	} else {
		staff.Status = models.StatusActive
	}
	return staff, nil
}

// --- product fake ---

type fakeProductRepo struct {
	products map[int64]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[int64]*models.Product{}}
}

func (f *fakeProductRepo) add(p *models.Product) {
	f.products[p.ID] = p
}

func (f *fakeProductRepo) Create(_ repositories.SQLExecutor, product *models.Product) (int64, error) {
	product.ID = int64(len(f.products) + 1)
	f.products[product.ID] = product
	return product.ID, nil
}

func (f *fakeProductRepo) GetByID(id int64) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return product, nil
}

func (f *fakeProductRepo) Exists(id int64) (bool, error) {
	_, ok := f.products[id]
	return ok, nil
}

func (f *fakeProductRepo) DuplicateExists(_ repositories.SQLExecutor, name, productType, sizeCategory string, stationID, excludeID int64) (bool, error) {
	for _, p := range f.products {
		if p.ID == excludeID || p.StationID != stationID {
			continue
		}
		if strings.EqualFold(p.Name, name) && strings.EqualFold(p.Type, productType) && strings.EqualFold(p.SizeCategory, sizeCategory) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProductRepo) ListForStation(stationID int64, typeFilter *string, activeOnly bool) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range f.products {
		if p.StationID != stationID {
			continue
		}
		if activeOnly && p.IsArchived {
			continue
		}
		if typeFilter != nil && !strings.EqualFold(p.Type, *typeFilter) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProductRepo) ListAll() ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProductRepo) Update(_ repositories.SQLExecutor, product *models.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) ToggleArchive(_ repositories.SQLExecutor, id int64) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	product.IsArchived = !product.IsArchived
	return product, nil
}

func (f *fakeProductRepo) Delete(_ repositories.SQLExecutor, id int64) error {
	if _, ok := f.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

// --- stock fake ---

type fakeStockRepo struct {
	nextID    int64
	movements []models.StockMovement
	staff     *fakeStaffRepo
	products  *fakeProductRepo
}

func newFakeStockRepo(staff *fakeStaffRepo, products *fakeProductRepo) *fakeStockRepo {
	return &fakeStockRepo{staff: staff, products: products}
}

func (f *fakeStockRepo) CreateMovement(_ repositories.SQLExecutor, movement *models.StockMovement) (int64, error) {
	f.nextID++
	movement.ID = f.nextID
	f.movements = append(f.movements, *movement)
	return movement.ID, nil
}

func (f *fakeStockRepo) GetMovementByID(id int64) (*models.StockMovement, error) {
	for i := range f.movements {
		if f.movements[i].ID == id {
			m := f.movements[i]
			return &m, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeStockRepo) UpdateMovement(_ repositories.SQLExecutor, movement *models.StockMovement) error {
	for i := range f.movements {
		if f.movements[i].ID == movement.ID {
			f.movements[i] = *movement
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeStockRepo) stationOf(m models.StockMovement) int64 {
	stationID, _ := f.staff.StationIDByStaff(m.StaffID)
	return stationID
}

func (f *fakeStockRepo) RawAvailable(productID, stationID int64) (int, error) {
	total := 0
	for _, m := range f.movements {
		if m.ProductID == productID && f.stationOf(m) == stationID {
			total += m.Kind.Sign() * m.Quantity
		}
	}
	return total, nil
}

func (f *fakeStockRepo) ListByStation(stationID int64, kinds ...models.MovementKind) ([]models.StockMovement, error) {
	out := []models.StockMovement{}
	for _, m := range f.movements {
		if f.stationOf(m) != stationID {
			continue
		}
		if len(kinds) > 0 {
			match := false
			for _, k := range kinds {
				if m.Kind == k {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeStockRepo) ListAll() ([]models.StockMovement, error) {
	return append([]models.StockMovement{}, f.movements...), nil
}

func (f *fakeStockRepo) Summary(stationID int64) ([]models.StockSummaryRow, error) {
	totals := map[int64]int{}
	for _, m := range f.movements {
		if f.stationOf(m) == stationID {
			totals[m.ProductID] += m.Kind.Sign() * m.Quantity
		}
	}
	rows := []models.StockSummaryRow{}
	for productID, total := range totals {
		row := models.StockSummaryRow{ProductID: productID, Available: total}
		if p, ok := f.products.products[productID]; ok {
			row.ProductName = p.Name
			row.ProductType = p.Type
			row.SizeCategory = p.SizeCategory
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// --- sale fake ---

type fakeSaleRepo struct {
	nextID int64
	sales  map[int64]*models.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: map[int64]*models.Sale{}}
}

func (f *fakeSaleRepo) Create(_ repositories.SQLExecutor, sale *models.Sale) (int64, error) {
	f.nextID++
	sale.ID = f.nextID
	stored := *sale
	f.sales[sale.ID] = &stored
	return sale.ID, nil
}

func (f *fakeSaleRepo) GetByID(id int64) (*models.Sale, error) {
	sale, ok := f.sales[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *sale
	return &copied, nil
}

func (f *fakeSaleRepo) Update(_ repositories.SQLExecutor, sale *models.Sale) error {
	if _, ok := f.sales[sale.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *sale
	f.sales[sale.ID] = &stored
	return nil
}

func (f *fakeSaleRepo) List(saleType *string) ([]models.Sale, error) {
	out := []models.Sale{}
	for _, sale := range f.sales {
		if saleType == nil || *saleType == "" || sale.SaleType == *saleType {
			out = append(out, *sale)
		}
	}
	return out, nil
}
