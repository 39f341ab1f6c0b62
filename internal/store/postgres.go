package store

import (
	"database/sql"
	"log"

	"github.com/lib/pq"

	"github.com/leasezero/leasezero-backend/internal/models"
)

// PostgresApplicationStore persists applications in the applications table.
type PostgresApplicationStore struct {
	db *sql.DB
}

func NewPostgresApplicationStore(db *sql.DB) *PostgresApplicationStore {
	return &PostgresApplicationStore{db: db}
}

const applicationColumns = `id, property_id, tenant_address, status, timestamp,
	anonymous_id, occupants, move_in_date, is_eligible_fhe,
	doc_hash, verification_tx, is_verified_on_chain, is_document_verified`

func (s *PostgresApplicationStore) Upsert(app models.Application) error {
	_, err := s.db.Exec(`
		INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			property_id = EXCLUDED.property_id,
			tenant_address = EXCLUDED.tenant_address,
			status = EXCLUDED.status,
			timestamp = EXCLUDED.timestamp,
			anonymous_id = EXCLUDED.anonymous_id,
			occupants = EXCLUDED.occupants,
			move_in_date = EXCLUDED.move_in_date,
			is_eligible_fhe = EXCLUDED.is_eligible_fhe,
			doc_hash = EXCLUDED.doc_hash,
			verification_tx = EXCLUDED.verification_tx,
			is_verified_on_chain = EXCLUDED.is_verified_on_chain,
			is_document_verified = EXCLUDED.is_document_verified
	`, app.ID, app.PropertyID, app.TenantAddress, app.Status, app.Timestamp,
		app.AnonymousID, app.Occupants, app.MoveInDate, app.IsEligibleFHE,
		app.DocHash, app.VerificationTx, app.IsVerifiedOnChain, app.IsDocumentVerified)
	return err
}

func (s *PostgresApplicationStore) GetByID(id string) (models.Application, bool) {
	row := s.db.QueryRow(`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("application store: get %s failed: %v", id, err)
		}
		return models.Application{}, false
	}
	return app, true
}

func (s *PostgresApplicationStore) ListAll() []models.Application {
	return s.list(`SELECT `+applicationColumns+` FROM applications ORDER BY timestamp`)
}

func (s *PostgresApplicationStore) ListForProperties(propertyIDs []string) []models.Application {
	if len(propertyIDs) == 0 {
		return nil
	}
	return s.list(`SELECT `+applicationColumns+` FROM applications
		WHERE property_id = ANY($1) ORDER BY timestamp`, pq.Array(propertyIDs))
}

func (s *PostgresApplicationStore) ListForTenant(tenantAddress string) []models.Application {
	return s.list(`SELECT `+applicationColumns+` FROM applications
		WHERE LOWER(tenant_address) = LOWER($1) ORDER BY timestamp`, tenantAddress)
}

// list runs a multi-row query, skipping rows that fail to scan. Query errors
// degrade to an empty result so a broken store never takes the session down.
func (s *PostgresApplicationStore) list(query string, args ...interface{}) []models.Application {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Printf("application store: query failed, treating as empty: %v", err)
		return nil
	}
	defer rows.Close()

	var out []models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			log.Printf("application store: skipping unreadable row: %v", err)
			continue
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		log.Printf("application store: iteration stopped early: %v", err)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(r rowScanner) (models.Application, error) {
	var app models.Application
	var docHash, verificationTx sql.NullString
	err := r.Scan(&app.ID, &app.PropertyID, &app.TenantAddress, &app.Status, &app.Timestamp,
		&app.AnonymousID, &app.Occupants, &app.MoveInDate, &app.IsEligibleFHE,
		&docHash, &verificationTx, &app.IsVerifiedOnChain, &app.IsDocumentVerified)
	if err != nil {
		return models.Application{}, err
	}
	app.DocHash = docHash.String
	app.VerificationTx = verificationTx.String
	return app, nil
}

// PostgresPropertyStore persists listings in the properties table.
type PostgresPropertyStore struct {
	db *sql.DB
}

func NewPostgresPropertyStore(db *sql.DB) *PostgresPropertyStore {
	return &PostgresPropertyStore{db: db}
}

const propertyColumns = `id, on_chain_id, owner_address, address, rent, type,
	available_from, created_at, images, min_income, min_seniority_months,
	require_savings_buffer, require_guarantor, employment_types, features,
	applicants_count, max_missed_payments, max_occupants, min_tenancy_duration,
	description, amenities, bedrooms, bathrooms, sq_ft, year_built,
	pet_policy, furnished_status, transport`

func (s *PostgresPropertyStore) Create(p models.Property) error {
	return s.save(p)
}

func (s *PostgresPropertyStore) Update(p models.Property) error {
	return s.save(p)
}

func (s *PostgresPropertyStore) save(p models.Property) error {
	_, err := s.db.Exec(`
		INSERT INTO properties (`+propertyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
		ON CONFLICT (id) DO UPDATE SET
			on_chain_id = EXCLUDED.on_chain_id,
			address = EXCLUDED.address,
			rent = EXCLUDED.rent,
			type = EXCLUDED.type,
			available_from = EXCLUDED.available_from,
			images = EXCLUDED.images,
			min_income = EXCLUDED.min_income,
			min_seniority_months = EXCLUDED.min_seniority_months,
			require_savings_buffer = EXCLUDED.require_savings_buffer,
			require_guarantor = EXCLUDED.require_guarantor,
			employment_types = EXCLUDED.employment_types,
			features = EXCLUDED.features,
			applicants_count = EXCLUDED.applicants_count,
			max_missed_payments = EXCLUDED.max_missed_payments,
			max_occupants = EXCLUDED.max_occupants,
			min_tenancy_duration = EXCLUDED.min_tenancy_duration,
			description = EXCLUDED.description,
			amenities = EXCLUDED.amenities,
			bedrooms = EXCLUDED.bedrooms,
			bathrooms = EXCLUDED.bathrooms,
			sq_ft = EXCLUDED.sq_ft,
			year_built = EXCLUDED.year_built,
			pet_policy = EXCLUDED.pet_policy,
			furnished_status = EXCLUDED.furnished_status,
			transport = EXCLUDED.transport
	`, p.ID, p.OnChainID, p.OwnerAddress, p.Address, p.Rent, p.Type,
		p.AvailableFrom, p.CreatedAt, pq.Array(p.Images), p.MinIncome, p.MinSeniorityMonths,
		p.RequireSavings, p.RequireGuarantor, pq.Array(p.EmploymentTypes), pq.Array(p.Features),
		p.ApplicantsCount, p.MaxMissedPayments, p.MaxOccupants, p.MinTenancyDuration,
		p.Description, pq.Array(p.Amenities), p.Specs.Bedrooms, p.Specs.Bathrooms,
		p.Specs.SqFt, p.Specs.YearBuilt, p.AdditionalInfo.PetPolicy,
		p.AdditionalInfo.FurnishedStatus, p.AdditionalInfo.Transport)
	return err
}

func (s *PostgresPropertyStore) GetByID(id string) (models.Property, bool) {
	row := s.db.QueryRow(`SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)
	p, err := scanProperty(row)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("property store: get %s failed: %v", id, err)
		}
		return models.Property{}, false
	}
	return p, true
}

func (s *PostgresPropertyStore) ListAll() []models.Property {
	return s.list(`SELECT ` + propertyColumns + ` FROM properties ORDER BY created_at`)
}

func (s *PostgresPropertyStore) ListForOwner(ownerAddress string) []models.Property {
	return s.list(`SELECT `+propertyColumns+` FROM properties
		WHERE LOWER(owner_address) = LOWER($1) ORDER BY created_at`, ownerAddress)
}

func (s *PostgresPropertyStore) list(query string, args ...interface{}) []models.Property {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Printf("property store: query failed, treating as empty: %v", err)
		return nil
	}
	defer rows.Close()

	var out []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			log.Printf("property store: skipping unreadable row: %v", err)
			continue
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		log.Printf("property store: iteration stopped early: %v", err)
	}
	return out
}

func scanProperty(r rowScanner) (models.Property, error) {
	var p models.Property
	var onChainID sql.NullString
	err := r.Scan(&p.ID, &onChainID, &p.OwnerAddress, &p.Address, &p.Rent, &p.Type,
		&p.AvailableFrom, &p.CreatedAt, pq.Array(&p.Images), &p.MinIncome, &p.MinSeniorityMonths,
		&p.RequireSavings, &p.RequireGuarantor, pq.Array(&p.EmploymentTypes), pq.Array(&p.Features),
		&p.ApplicantsCount, &p.MaxMissedPayments, &p.MaxOccupants, &p.MinTenancyDuration,
		&p.Description, pq.Array(&p.Amenities), &p.Specs.Bedrooms, &p.Specs.Bathrooms,
		&p.Specs.SqFt, &p.Specs.YearBuilt, &p.AdditionalInfo.PetPolicy,
		&p.AdditionalInfo.FurnishedStatus, &p.AdditionalInfo.Transport)
	if err != nil {
		return models.Property{}, err
	}
	p.OnChainID = onChainID.String
	return p, nil
}

// PostgresProfileStore persists confidential profiles keyed by wallet address.
type PostgresProfileStore struct {
	db *sql.DB
}

func NewPostgresProfileStore(db *sql.DB) *PostgresProfileStore {
	return &PostgresProfileStore{db: db}
}

func (s *PostgresProfileStore) Save(p models.ConfidentialProfile) error {
	_, err := s.db.Exec(`
		INSERT INTO confidential_profiles
			(address, salary, seniority_months, savings, guarantor_income,
			 missed_payments, household_size, sealed)
		VALUES (LOWER($1), $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (address) DO UPDATE SET
			salary = EXCLUDED.salary,
			seniority_months = EXCLUDED.seniority_months,
			savings = EXCLUDED.savings,
			guarantor_income = EXCLUDED.guarantor_income,
			missed_payments = EXCLUDED.missed_payments,
			household_size = EXCLUDED.household_size,
			sealed = EXCLUDED.sealed
	`, p.Address, p.Salary, p.SeniorityMonths, p.Savings, p.GuarantorIncome,
		p.MissedPayments, p.HouseholdSize, p.Sealed)
	return err
}

func (s *PostgresProfileStore) Get(address string) (models.ConfidentialProfile, bool) {
	var p models.ConfidentialProfile
	err := s.db.QueryRow(`
		SELECT address, salary, seniority_months, savings, guarantor_income,
			missed_payments, household_size, sealed
		FROM confidential_profiles WHERE address = LOWER($1)
	`, address).Scan(&p.Address, &p.Salary, &p.SeniorityMonths, &p.Savings,
		&p.GuarantorIncome, &p.MissedPayments, &p.HouseholdSize, &p.Sealed)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("profile store: get failed: %v", err)
		}
		return models.ConfidentialProfile{}, false
	}
	return p, true
}
