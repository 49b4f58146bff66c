// Package sqlite provides the SQLite-backed store for the trip engine.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/anchorline/tripgate/internal/storage"
	"github.com/anchorline/tripgate/internal/storage/sqlite/migrations"
	"github.com/anchorline/tripgate/internal/trip/domain"
	"github.com/anchorline/tripgate/internal/trip/risk"
)

// Store implements every storage interface on a single SQLite database.
type Store struct {
	db *sqlx.DB
}

// Open opens (and migrates) a SQLite store at the provided path.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single writer keeps the guarded phase updates race-free at the
	// database level.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA foreign_keys = ON`,
		`PRAGMA busy_timeout = 5000`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}
	if err := applyMigrations(db, migrations.TripsFS, "trips"); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying SQLite database.
//
// Close is intentionally nil-safe so callers can defer it in all startup
// paths.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis reverses toMillis for persisted millisecond timestamps.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func toNullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

func fromNullMillis(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	t := fromMillis(value.Int64)
	return &t
}

// tripRecord is the trips table row shape.
type tripRecord struct {
	ID                string        `db:"id"`
	Name              string        `db:"name"`
	DepartureDateMs   int64         `db:"departure_date_ms"`
	Phase             string        `db:"phase"`
	PackageCode       string        `db:"package_code"`
	PassengerTracking bool          `db:"passenger_tracking"`
	LogisticsTracking bool          `db:"logistics_tracking"`
	DocumentationURL  string        `db:"documentation_url"`
	NeedsReassignment bool          `db:"needs_reassignment"`
	ChecklistsJSON    string        `db:"checklists_json"`
	CompletedAtMs     sql.NullInt64 `db:"completed_at_ms"`
	CreatedAtMs       int64         `db:"created_at_ms"`
	UpdatedAtMs       int64         `db:"updated_at_ms"`
}

func (r tripRecord) toDomain() (domain.Trip, error) {
	var checklists domain.ChecklistSnapshot
	if r.ChecklistsJSON != "" {
		if err := json.Unmarshal([]byte(r.ChecklistsJSON), &checklists); err != nil {
			return domain.Trip{}, fmt.Errorf("decode checklist snapshot for trip %s: %w", r.ID, err)
		}
	}
	phase, _ := domain.NormalizePhase(r.Phase)
	return domain.Trip{
		ID:                r.ID,
		Name:              r.Name,
		DepartureDate:     fromMillis(r.DepartureDateMs),
		Phase:             phase,
		PackageCode:       r.PackageCode,
		PassengerTracking: r.PassengerTracking,
		LogisticsTracking: r.LogisticsTracking,
		DocumentationURL:  r.DocumentationURL,
		NeedsReassignment: r.NeedsReassignment,
		Checklists:        checklists,
		CompletedAt:       fromNullMillis(r.CompletedAtMs),
		CreatedAt:         fromMillis(r.CreatedAtMs),
		UpdatedAt:         fromMillis(r.UpdatedAtMs),
	}, nil
}

// CreateTrip inserts a new trip row including its checklist snapshot.
func (s *Store) CreateTrip(ctx context.Context, trip domain.Trip) error {
	checklists, err := json.Marshal(trip.Checklists)
	if err != nil {
		return fmt.Errorf("encode checklist snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO trips (
			id, name, departure_date_ms, phase, package_code,
			passenger_tracking, logistics_tracking, documentation_url,
			needs_reassignment, checklists_json, completed_at_ms,
			created_at_ms, updated_at_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trip.ID, trip.Name, toMillis(trip.DepartureDate), string(trip.Phase), trip.PackageCode,
		trip.PassengerTracking, trip.LogisticsTracking, trip.DocumentationURL,
		trip.NeedsReassignment, string(checklists), toNullMillis(trip.CompletedAt),
		toMillis(trip.CreatedAt), toMillis(trip.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

// GetTrip loads one trip by ID.
func (s *Store) GetTrip(ctx context.Context, tripID string) (domain.Trip, error) {
	var record tripRecord
	err := s.db.GetContext(ctx, &record, `SELECT * FROM trips WHERE id = ?`, tripID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Trip{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("select trip: %w", err)
	}
	return record.toDomain()
}

// ListTrips returns all trips ordered by departure date.
func (s *Store) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	var records []tripRecord
	if err := s.db.SelectContext(ctx, &records, `SELECT * FROM trips ORDER BY departure_date_ms, id`); err != nil {
		return nil, fmt.Errorf("select trips: %w", err)
	}
	trips := make([]domain.Trip, 0, len(records))
	for _, record := range records {
		trip, err := record.toDomain()
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

// TransitionPhase moves a trip to the next phase with a guard on the
// expected current phase. The guarded UPDATE makes concurrent transition
// attempts lose deterministically: zero affected rows on an existing trip
// means another caller already moved it.
func (s *Store) TransitionPhase(ctx context.Context, tripID string, from, to domain.Phase, at time.Time) error {
	var completedAt sql.NullInt64
	if to == domain.PhasePostTrip {
		completedAt = sql.NullInt64{Int64: toMillis(at), Valid: true}
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE trips
		SET phase = ?, completed_at_ms = COALESCE(?, completed_at_ms), updated_at_ms = ?
		WHERE id = ? AND phase = ?`,
		string(to), completedAt, toMillis(at), tripID, string(from),
	)
	if err != nil {
		return fmt.Errorf("transition trip phase: %w", err)
	}
	return s.casOutcome(ctx, result, `SELECT COUNT(*) FROM trips WHERE id = ?`, tripID)
}

// SetDocumentationURL stores the trip's documentation reference.
func (s *Store) SetDocumentationURL(ctx context.Context, tripID, url string, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE trips SET documentation_url = ?, updated_at_ms = ? WHERE id = ?`,
		url, toMillis(at), tripID,
	)
	if err != nil {
		return fmt.Errorf("set documentation url: %w", err)
	}
	return rowsOrNotFound(result)
}

// SetNeedsReassignment flags a trip for crew re-dispatch.
func (s *Store) SetNeedsReassignment(ctx context.Context, tripID string, needs bool, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE trips SET needs_reassignment = ?, updated_at_ms = ? WHERE id = ?`,
		needs, toMillis(at), tripID,
	)
	if err != nil {
		return fmt.Errorf("set needs reassignment: %w", err)
	}
	return rowsOrNotFound(result)
}

// crewRecord is the crew_assignments table row shape.
type crewRecord struct {
	ID          string `db:"id"`
	TripID      string `db:"trip_id"`
	GuideID     string `db:"guide_id"`
	Role        string `db:"role"`
	Status      string `db:"status"`
	CreatedAtMs int64  `db:"created_at_ms"`
	UpdatedAtMs int64  `db:"updated_at_ms"`
}

func (r crewRecord) toDomain() domain.CrewAssignment {
	role, _ := domain.NormalizeCrewRole(r.Role)
	status, _ := domain.NormalizeAssignmentStatus(r.Status)
	return domain.CrewAssignment{
		ID:        r.ID,
		TripID:    r.TripID,
		GuideID:   r.GuideID,
		Role:      role,
		Status:    status,
		CreatedAt: fromMillis(r.CreatedAtMs),
		UpdatedAt: fromMillis(r.UpdatedAtMs),
	}
}

// CreateAssignment inserts a pending crew assignment.
func (s *Store) CreateAssignment(ctx context.Context, assignment domain.CrewAssignment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crew_assignments (id, trip_id, guide_id, role, status, created_at_ms, updated_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		assignment.ID, assignment.TripID, assignment.GuideID,
		string(assignment.Role), string(assignment.Status),
		toMillis(assignment.CreatedAt), toMillis(assignment.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert crew assignment: %w", err)
	}
	return nil
}

// GetAssignment loads the assignment for a (trip, guide) pair.
func (s *Store) GetAssignment(ctx context.Context, tripID, guideID string) (domain.CrewAssignment, error) {
	var record crewRecord
	err := s.db.GetContext(ctx, &record,
		`SELECT * FROM crew_assignments WHERE trip_id = ? AND guide_id = ?`, tripID, guideID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CrewAssignment{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.CrewAssignment{}, fmt.Errorf("select crew assignment: %w", err)
	}
	return record.toDomain(), nil
}

// ListAssignments returns a trip's crew set in assignment order.
func (s *Store) ListAssignments(ctx context.Context, tripID string) ([]domain.CrewAssignment, error) {
	var records []crewRecord
	err := s.db.SelectContext(ctx, &records,
		`SELECT * FROM crew_assignments WHERE trip_id = ? ORDER BY created_at_ms, id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("select crew assignments: %w", err)
	}
	assignments := make([]domain.CrewAssignment, 0, len(records))
	for _, record := range records {
		assignments = append(assignments, record.toDomain())
	}
	return assignments, nil
}

// UpdateAssignmentStatus applies a status transition guarded on the
// expected current status.
func (s *Store) UpdateAssignmentStatus(ctx context.Context, assignmentID string, from, to domain.AssignmentStatus, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE crew_assignments SET status = ?, updated_at_ms = ?
		WHERE id = ? AND status = ?`,
		string(to), toMillis(at), assignmentID, string(from),
	)
	if err != nil {
		return fmt.Errorf("update assignment status: %w", err)
	}
	return s.casOutcome(ctx, result, `SELECT COUNT(*) FROM crew_assignments WHERE id = ?`, assignmentID)
}

// passengerRecord is the passengers table row shape.
type passengerRecord struct {
	ID            string `db:"id"`
	TripID        string `db:"trip_id"`
	FullName      string `db:"full_name"`
	Phone         string `db:"phone"`
	Notes         string `db:"notes"`
	Status        string `db:"status"`
	ManifestOrder int    `db:"manifest_order"`
	CreatedAtMs   int64  `db:"created_at_ms"`
	UpdatedAtMs   int64  `db:"updated_at_ms"`
}

func (r passengerRecord) toDomain() domain.Passenger {
	status, _ := domain.NormalizePassengerStatus(r.Status)
	return domain.Passenger{
		ID:            r.ID,
		TripID:        r.TripID,
		FullName:      r.FullName,
		Phone:         r.Phone,
		Notes:         r.Notes,
		Status:        status,
		ManifestOrder: r.ManifestOrder,
		CreatedAt:     fromMillis(r.CreatedAtMs),
		UpdatedAt:     fromMillis(r.UpdatedAtMs),
	}
}

// AddPassenger appends a passenger to the manifest.
func (s *Store) AddPassenger(ctx context.Context, passenger domain.Passenger) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO passengers (id, trip_id, full_name, phone, notes, status, manifest_order, created_at_ms, updated_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		passenger.ID, passenger.TripID, passenger.FullName, passenger.Phone, passenger.Notes,
		string(passenger.Status), passenger.ManifestOrder,
		toMillis(passenger.CreatedAt), toMillis(passenger.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert passenger: %w", err)
	}
	return nil
}

// GetPassenger loads one manifest entry scoped to its trip.
func (s *Store) GetPassenger(ctx context.Context, tripID, passengerID string) (domain.Passenger, error) {
	var record passengerRecord
	err := s.db.GetContext(ctx, &record,
		`SELECT * FROM passengers WHERE trip_id = ? AND id = ?`, tripID, passengerID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Passenger{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Passenger{}, fmt.Errorf("select passenger: %w", err)
	}
	return record.toDomain(), nil
}

// ListPassengers returns the trip's manifest in manifest order.
func (s *Store) ListPassengers(ctx context.Context, tripID string) ([]domain.Passenger, error) {
	var records []passengerRecord
	err := s.db.SelectContext(ctx, &records,
		`SELECT * FROM passengers WHERE trip_id = ? ORDER BY manifest_order, id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("select passengers: %w", err)
	}
	passengers := make([]domain.Passenger, 0, len(records))
	for _, record := range records {
		passengers = append(passengers, record.toDomain())
	}
	return passengers, nil
}

// UpdatePassengerStatus applies a boarding-flow transition guarded on the
// expected current status.
func (s *Store) UpdatePassengerStatus(ctx context.Context, passengerID string, from, to domain.PassengerStatus, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE passengers SET status = ?, updated_at_ms = ?
		WHERE id = ? AND status = ?`,
		string(to), toMillis(at), passengerID, string(from),
	)
	if err != nil {
		return fmt.Errorf("update passenger status: %w", err)
	}
	return s.casOutcome(ctx, result, `SELECT COUNT(*) FROM passengers WHERE id = ?`, passengerID)
}

// SetChecklistItem upserts one checked flag. Last write wins; the
// evaluators read whatever is current at evaluation time.
func (s *Store) SetChecklistItem(ctx context.Context, tripID string, namespace domain.ChecklistNamespace, code string, checked bool, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checklist_items (trip_id, namespace, code, checked, updated_at_ms)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (trip_id, namespace, code)
		DO UPDATE SET checked = excluded.checked, updated_at_ms = excluded.updated_at_ms`,
		tripID, string(namespace), code, checked, toMillis(at),
	)
	if err != nil {
		return fmt.Errorf("upsert checklist item: %w", err)
	}
	return nil
}

// ChecklistState returns the checked map for one namespace.
func (s *Store) ChecklistState(ctx context.Context, tripID string, namespace domain.ChecklistNamespace) (map[string]bool, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT code, checked FROM checklist_items WHERE trip_id = ? AND namespace = ?`,
		tripID, string(namespace))
	if err != nil {
		return nil, fmt.Errorf("select checklist state: %w", err)
	}
	defer rows.Close()

	state := make(map[string]bool)
	for rows.Next() {
		var code string
		var checked bool
		if err := rows.Scan(&code, &checked); err != nil {
			return nil, fmt.Errorf("scan checklist item: %w", err)
		}
		state[code] = checked
	}
	return state, rows.Err()
}

// assessmentRecord is the risk_assessments table row shape.
type assessmentRecord struct {
	ID                string          `db:"id"`
	TripID            string          `db:"trip_id"`
	WaveHeightM       sql.NullFloat64 `db:"wave_height_m"`
	WindSpeedKmh      sql.NullFloat64 `db:"wind_speed_kmh"`
	Weather           string          `db:"weather"`
	CrewReady         bool            `db:"crew_ready"`
	EquipmentComplete bool            `db:"equipment_complete"`
	Latitude          sql.NullFloat64 `db:"latitude"`
	Longitude         sql.NullFloat64 `db:"longitude"`
	Score             int             `db:"score"`
	Level             string          `db:"level"`
	Blocked           bool            `db:"blocked"`
	CreatedAtMs       int64           `db:"created_at_ms"`
}

func nullFloat(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}

func floatPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}

func (r assessmentRecord) toDomain() risk.Assessment {
	weather, _ := risk.NormalizeWeatherCondition(r.Weather)
	return risk.Assessment{
		ID:     r.ID,
		TripID: r.TripID,
		Input: risk.Input{
			WaveHeightM:       floatPtr(r.WaveHeightM),
			WindSpeedKmh:      floatPtr(r.WindSpeedKmh),
			Weather:           weather,
			CrewReady:         r.CrewReady,
			EquipmentComplete: r.EquipmentComplete,
			Latitude:          floatPtr(r.Latitude),
			Longitude:         floatPtr(r.Longitude),
		},
		Result: risk.Result{
			Score:   r.Score,
			Level:   risk.Level(r.Level),
			Blocked: r.Blocked,
		},
		CreatedAt: fromMillis(r.CreatedAtMs),
	}
}

// AppendAssessment inserts an immutable assessment snapshot.
func (s *Store) AppendAssessment(ctx context.Context, assessment risk.Assessment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO risk_assessments (
			id, trip_id, wave_height_m, wind_speed_kmh, weather,
			crew_ready, equipment_complete, latitude, longitude,
			score, level, blocked, created_at_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		assessment.ID, assessment.TripID,
		nullFloat(assessment.Input.WaveHeightM), nullFloat(assessment.Input.WindSpeedKmh),
		string(assessment.Input.Weather),
		assessment.Input.CrewReady, assessment.Input.EquipmentComplete,
		nullFloat(assessment.Input.Latitude), nullFloat(assessment.Input.Longitude),
		assessment.Result.Score, string(assessment.Result.Level), assessment.Result.Blocked,
		toMillis(assessment.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert risk assessment: %w", err)
	}
	return nil
}

// LatestAssessment returns the most recent assessment for a trip.
func (s *Store) LatestAssessment(ctx context.Context, tripID string) (risk.Assessment, error) {
	var record assessmentRecord
	err := s.db.GetContext(ctx, &record, `
		SELECT * FROM risk_assessments WHERE trip_id = ?
		ORDER BY created_at_ms DESC, id DESC LIMIT 1`, tripID)
	if errors.Is(err, sql.ErrNoRows) {
		return risk.Assessment{}, storage.ErrNotFound
	}
	if err != nil {
		return risk.Assessment{}, fmt.Errorf("select latest assessment: %w", err)
	}
	return record.toDomain(), nil
}

// ListAssessments returns a trip's assessment history, newest first.
func (s *Store) ListAssessments(ctx context.Context, tripID string) ([]risk.Assessment, error) {
	var records []assessmentRecord
	err := s.db.SelectContext(ctx, &records, `
		SELECT * FROM risk_assessments WHERE trip_id = ?
		ORDER BY created_at_ms DESC, id DESC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("select assessments: %w", err)
	}
	assessments := make([]risk.Assessment, 0, len(records))
	for _, record := range records {
		assessments = append(assessments, record.toDomain())
	}
	return assessments, nil
}

// opsSignalsRecord is the ops_signals table row shape.
type opsSignalsRecord struct {
	TripID                 string `db:"trip_id"`
	AttendanceCheckedIn    bool   `db:"attendance_checked_in"`
	AttendanceCheckedOut   bool   `db:"attendance_checked_out"`
	CrewCertified          bool   `db:"crew_certified"`
	OpsApproved            bool   `db:"ops_approved"`
	HandoverRecorded       bool   `db:"handover_recorded"`
	HandoverCompleted      bool   `db:"handover_completed"`
	TasksRequiredTotal     int    `db:"tasks_required_total"`
	TasksRequiredCompleted int    `db:"tasks_required_completed"`
	ExpensesSubmitted      bool   `db:"expenses_submitted"`
	PaymentSplitCalculated bool   `db:"payment_split_calculated"`
}

// PutOpsSignals upserts the per-trip operational record.
func (s *Store) PutOpsSignals(ctx context.Context, signals storage.OpsSignals) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ops_signals (
			trip_id, attendance_checked_in, attendance_checked_out,
			crew_certified, ops_approved, handover_recorded, handover_completed,
			tasks_required_total, tasks_required_completed,
			expenses_submitted, payment_split_calculated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (trip_id) DO UPDATE SET
			attendance_checked_in = excluded.attendance_checked_in,
			attendance_checked_out = excluded.attendance_checked_out,
			crew_certified = excluded.crew_certified,
			ops_approved = excluded.ops_approved,
			handover_recorded = excluded.handover_recorded,
			handover_completed = excluded.handover_completed,
			tasks_required_total = excluded.tasks_required_total,
			tasks_required_completed = excluded.tasks_required_completed,
			expenses_submitted = excluded.expenses_submitted,
			payment_split_calculated = excluded.payment_split_calculated`,
		signals.TripID, signals.AttendanceCheckedIn, signals.AttendanceCheckedOut,
		signals.CrewCertified, signals.OpsApproved, signals.HandoverRecorded, signals.HandoverCompleted,
		signals.TasksRequiredTotal, signals.TasksRequiredCompleted,
		signals.ExpensesSubmitted, signals.PaymentSplitCalculated,
	)
	if err != nil {
		return fmt.Errorf("upsert ops signals: %w", err)
	}
	return nil
}

// GetOpsSignals loads the operational record for a trip.
func (s *Store) GetOpsSignals(ctx context.Context, tripID string) (storage.OpsSignals, error) {
	var record opsSignalsRecord
	err := s.db.GetContext(ctx, &record, `SELECT * FROM ops_signals WHERE trip_id = ?`, tripID)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.OpsSignals{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.OpsSignals{}, fmt.Errorf("select ops signals: %w", err)
	}
	return storage.OpsSignals(record), nil
}

// casOutcome distinguishes a lost compare-and-swap from a missing record.
func (s *Store) casOutcome(ctx context.Context, result sql.Result, existsQuery, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}
	var count int
	if err := s.db.GetContext(ctx, &count, existsQuery, id); err != nil {
		return fmt.Errorf("check record existence: %w", err)
	}
	if count == 0 {
		return storage.ErrNotFound
	}
	return storage.ErrConflict
}

func rowsOrNotFound(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
