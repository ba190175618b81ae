package org

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jefrey05/sistema-gestion/internal/model"
	"github.com/Jefrey05/sistema-gestion/pkg/hash"
	"github.com/Jefrey05/sistema-gestion/pkg/slug"
	"gorm.io/gorm"
)

// GenerateUniqueSlug derives a slug from the organization name, retrying
// with an incrementing numeric suffix until no other organization holds it.
// The loop is bounded only by the set of existing slugs.
func GenerateUniqueSlug(db *gorm.DB, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		return "", fmt.Errorf("%w: name produces an empty slug", ErrValidation)
	}

	candidate := base
	for counter := 1; ; counter++ {
		var count int64
		if err := db.Model(&model.Organization{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", fmt.Errorf("checking slug uniqueness: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

// CreateParams are the fields accepted when creating an organization.
type CreateParams struct {
	Name           string
	Email          string
	Phone          string
	PrimaryColor   string
	SecondaryColor string
	ModulesEnabled model.ModulesMap
	Plan           model.SubscriptionPlan
	Status         model.OrganizationStatus
}

// Create inserts a new organization with a unique slug. Status defaults to
// pending and the plan's resource limits are applied.
func Create(db *gorm.DB, params CreateParams) (*model.Organization, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	uniqueSlug, err := GenerateUniqueSlug(db, params.Name)
	if err != nil {
		return nil, err
	}

	modules := params.ModulesEnabled
	if modules == nil {
		modules = model.DefaultModules()
	}

	plan := params.Plan
	if plan == "" {
		plan = model.PlanFree
	}
	if !plan.Valid() {
		return nil, fmt.Errorf("%w: unknown subscription plan %q", ErrValidation, params.Plan)
	}

	status := params.Status
	if status == "" {
		status = model.OrgStatusPending
	}

	o := model.Organization{
		Name:           params.Name,
		Slug:           uniqueSlug,
		Email:          params.Email,
		Phone:          params.Phone,
		PrimaryColor:   params.PrimaryColor,
		SecondaryColor: params.SecondaryColor,
		ModulesEnabled: modules,
		Status:         status,
		Currency:       "USD",
	}
	applyPlan(&o, plan)

	if err := db.Create(&o).Error; err != nil {
		return nil, fmt.Errorf("creating organization: %w", err)
	}

	return &o, nil
}

// GetByID fetches an organization or ErrNotFound.
func GetByID(db *gorm.DB, id uint) (*model.Organization, error) {
	var o model.Organization
	if err := db.First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching organization %d: %w", id, err)
	}
	return &o, nil
}

// GetBySlug fetches an organization by its slug or ErrNotFound.
func GetBySlug(db *gorm.DB, s string) (*model.Organization, error) {
	var o model.Organization
	if err := db.Where("slug = ?", s).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching organization %q: %w", s, err)
	}
	return &o, nil
}

// ListFilter narrows and pages the organization listing.
type ListFilter struct {
	Status model.OrganizationStatus
	Offset int
	Limit  int
}

// List returns organizations newest first.
func List(db *gorm.DB, filter ListFilter) ([]model.Organization, error) {
	query := db.Model(&model.Organization{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	var orgs []model.Organization
	if err := query.Order("created_at DESC").Offset(filter.Offset).Limit(filter.Limit).Find(&orgs).Error; err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	return orgs, nil
}

// UpdateParams is the typed patch for an organization: only non-nil fields
// are applied. The slug is immutable and deliberately absent.
type UpdateParams struct {
	Name           *string
	Email          *string
	Phone          *string
	LogoURL        *string
	StampURL       *string
	PrimaryColor   *string
	SecondaryColor *string
	ModuleColors   *model.StringMap
	RNC            *string
	Address        *string
	City           *string
	AddressNumber  *string
	Website        *string
	InvoiceEmail   *string
	Currency       *string
	Notes          *string
	ModulesEnabled *model.ModulesMap
}

// Update applies the patch and stamps updated_at.
func Update(db *gorm.DB, id uint, patch UpdateParams) (*model.Organization, error) {
	o, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		o.Name = *patch.Name
	}
	if patch.Email != nil {
		o.Email = *patch.Email
	}
	if patch.Phone != nil {
		o.Phone = *patch.Phone
	}
	if patch.LogoURL != nil {
		o.LogoURL = *patch.LogoURL
	}
	if patch.StampURL != nil {
		o.StampURL = *patch.StampURL
	}
	if patch.PrimaryColor != nil {
		o.PrimaryColor = *patch.PrimaryColor
	}
	if patch.SecondaryColor != nil {
		o.SecondaryColor = *patch.SecondaryColor
	}
	if patch.ModuleColors != nil {
		o.ModuleColors = *patch.ModuleColors
	}
	if patch.RNC != nil {
		o.RNC = *patch.RNC
	}
	if patch.Address != nil {
		o.Address = *patch.Address
	}
	if patch.City != nil {
		o.City = *patch.City
	}
	if patch.AddressNumber != nil {
		o.AddressNumber = *patch.AddressNumber
	}
	if patch.Website != nil {
		o.Website = *patch.Website
	}
	if patch.InvoiceEmail != nil {
		o.InvoiceEmail = *patch.InvoiceEmail
	}
	if patch.Currency != nil {
		o.Currency = *patch.Currency
	}
	if patch.Notes != nil {
		o.Notes = *patch.Notes
	}
	if patch.ModulesEnabled != nil {
		o.ModulesEnabled = *patch.ModulesEnabled
	}

	o.UpdatedAt = time.Now().UTC()
	if err := db.Save(o).Error; err != nil {
		return nil, fmt.Errorf("updating organization %d: %w", id, err)
	}
	return o, nil
}

// SetLogo stores the logo URL after a successful asset upload.
func SetLogo(db *gorm.DB, id uint, logoURL string) (*model.Organization, error) {
	return Update(db, id, UpdateParams{LogoURL: &logoURL})
}

// SetStamp stores the invoice stamp URL after a successful asset upload.
func SetStamp(db *gorm.DB, id uint, stampURL string) (*model.Organization, error) {
	return Update(db, id, UpdateParams{StampURL: &stampURL})
}

// RegisterParams is the public self-registration payload: a new pending
// organization together with its (initially inactive) admin user.
type RegisterParams struct {
	Name             string
	Email            string
	Phone            string
	PrimaryColor     string
	SecondaryColor   string
	ModulesRequested model.ModulesMap
	AdminUsername    string
	AdminEmail       string
	AdminPassword    string
}

// Register creates a pending organization and its inactive admin user in
// one transaction. The desired admin username and organization email must
// not already exist.
func Register(db *gorm.DB, params RegisterParams) (*model.Organization, error) {
	if params.Name == "" || params.Email == "" || params.AdminUsername == "" || params.AdminPassword == "" {
		return nil, fmt.Errorf("%w: name, email, admin username and password are required", ErrValidation)
	}

	var count int64
	if err := db.Model(&model.Organization{}).Where("email = ?", params.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("checking organization email: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: an organization with this email already exists", ErrValidation)
	}

	if err := db.Model(&model.User{}).Where("username = ?", params.AdminUsername).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("checking admin username: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: username already taken", ErrValidation)
	}

	hashed, err := hash.Password(params.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing admin password: %w", err)
	}

	var created *model.Organization
	err = db.Transaction(func(tx *gorm.DB) error {
		o, err := Create(tx, CreateParams{
			Name:           params.Name,
			Email:          params.Email,
			Phone:          params.Phone,
			PrimaryColor:   params.PrimaryColor,
			SecondaryColor: params.SecondaryColor,
			ModulesEnabled: params.ModulesRequested,
			Plan:           model.PlanFree,
		})
		if err != nil {
			return err
		}

		admin := model.User{
			Username:       params.AdminUsername,
			Email:          params.AdminEmail,
			FullName:       params.Name,
			HashedPassword: hashed,
			Role:           model.RoleAdmin,
			OrganizationID: &o.ID,
			// Inactive until the organization is approved
			IsActive: false,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("creating admin user: %w", err)
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// CreateWithAdminParams is the super-admin path: an organization born active
// together with an active admin user.
type CreateWithAdminParams struct {
	OrganizationName string
	AdminEmail       string
	AdminPassword    string
	AdminFullName    string
	Phone            string
	Address          string
	Plan             model.SubscriptionPlan
}

// CreateWithAdmin provisions an active organization and its admin user in
// one transaction.
func CreateWithAdmin(db *gorm.DB, params CreateWithAdminParams) (*model.Organization, error) {
	if params.OrganizationName == "" || params.AdminEmail == "" || params.AdminPassword == "" || params.AdminFullName == "" {
		return nil, fmt.Errorf("%w: organization name, admin email, password and full name are required", ErrValidation)
	}

	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", params.AdminEmail).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("checking admin email: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: email already registered", ErrValidation)
	}

	// Username derived from the email local part, as the original
	// provisioning flow does
	username := params.AdminEmail
	if at := strings.Index(username, "@"); at > 0 {
		username = username[:at]
	}
	if err := db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("checking admin username: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: username already taken", ErrValidation)
	}

	plan := params.Plan
	if plan == "" {
		plan = model.PlanBasic
	}

	hashed, err := hash.Password(params.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing admin password: %w", err)
	}

	var created *model.Organization
	err = db.Transaction(func(tx *gorm.DB) error {
		o, err := Create(tx, CreateParams{
			Name:   params.OrganizationName,
			Email:  params.AdminEmail,
			Phone:  params.Phone,
			Plan:   plan,
			Status: model.OrgStatusActive,
		})
		if err != nil {
			return err
		}

		if params.Address != "" {
			o.Address = params.Address
			if err := tx.Save(o).Error; err != nil {
				return fmt.Errorf("saving organization address: %w", err)
			}
		}

		admin := model.User{
			Username:       username,
			Email:          params.AdminEmail,
			FullName:       params.AdminFullName,
			HashedPassword: hashed,
			Role:           model.RoleAdmin,
			OrganizationID: &o.ID,
			IsActive:       true,
			Phone:          params.Phone,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("creating admin user: %w", err)
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Stats holds the per-entity usage counters of an organization.
type Stats struct {
	TotalUsers    int64 `json:"total_users"`
	TotalClients  int64 `json:"total_clients"`
	TotalProducts int64 `json:"total_products"`
	TotalSales    int64 `json:"total_sales"`
	TotalRentals  int64 `json:"total_rentals"`
	StorageUsedMB int64 `json:"storage_used_mb"`
}

// GetStats counts the organization's users and business entities.
func GetStats(db *gorm.DB, organizationID uint) (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		entity interface{}
		dest   *int64
	}{
		{&model.User{}, &stats.TotalUsers},
		{&model.Client{}, &stats.TotalClients},
		{&model.Product{}, &stats.TotalProducts},
		{&model.Sale{}, &stats.TotalSales},
		{&model.Rental{}, &stats.TotalRentals},
	}
	for _, c := range counts {
		if err := db.Model(c.entity).Where("organization_id = ?", organizationID).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("counting organization stats: %w", err)
		}
	}

	return stats, nil
}
