package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"waste-wrangler-service/internal/domain"
	"waste-wrangler-service/internal/ports"
)

// SQLStore implements ports.Store over database/sql for Postgres (pgx) and SQLite.
type SQLStore struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewPostgresStore(db *sql.DB) *SQLStore { return &SQLStore{DB: db, Dialect: Postgres} }

func NewSqliteStore(db *sql.DB) *SQLStore { return &SQLStore{DB: db, Dialect: SQLite} }

// NewStore picks the dialect for a database/sql driver name ("pgx" or "sqlite").
func NewStore(db *sql.DB, driver string) (*SQLStore, error) {
	d, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	return &SQLStore{DB: db, Dialect: d}, nil
}

// WithinTx runs fn in a transaction, committing only when fn succeeds.
func (s *SQLStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	if s.DB == nil {
		return errors.New("sql store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, s.Dialect.txOpts)
	if err != nil {
		return fmt.Errorf("sql store: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, &sqlTx{tx: tx, d: s.Dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sql store: commit tx: %w", err)
	}
	return nil
}

type sqlTx struct {
	tx *sql.Tx
	d  Dialect
}

func (t *sqlTx) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, t.d.rebind(q), args...)
}

func (t *sqlTx) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, t.d.rebind(q), args...)
}

func (t *sqlTx) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.d.rebind(q), args...)
}

func (t *sqlTx) RouteByID(ctx context.Context, rid int) (domain.Route, error) {
	var r domain.Route
	err := t.queryRow(ctx, `
	SELECT rid, waste_type, length
	FROM route
	WHERE rid = ?;
	`, rid).Scan(&r.ID, &r.WasteType, &r.Length)
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("get route %d: %w", rid, domain.ErrNotFound)
	}
	if err != nil {
		return r, fmt.Errorf("get route %d: scan row: %w", rid, err)
	}
	return r, nil
}

func (t *sqlTx) RoutesByWasteType(ctx context.Context, wasteType string) ([]domain.Route, error) {
	rows, err := t.query(ctx, `
	SELECT rid, waste_type, length
	FROM route
	WHERE waste_type = ?
	ORDER BY rid;
	`, wasteType)
	if err != nil {
		return nil, fmt.Errorf("list routes: query route table: %w", err)
	}
	defer rows.Close()

	routes := make([]domain.Route, 0, 16)
	for rows.Next() {
		var r domain.Route
		if err := rows.Scan(&r.ID, &r.WasteType, &r.Length); err != nil {
			return nil, fmt.Errorf("list routes: scan row: %w", err)
		}
		routes = append(routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}
	return routes, nil
}

const truckColumns = `
	SELECT t.tid, t.truck_type, tt.waste_type, t.capacity
	FROM truck t
	JOIN truck_type tt ON tt.truck_type = t.truck_type
`

func (t *sqlTx) TruckByID(ctx context.Context, tid int) (domain.Truck, error) {
	var tr domain.Truck
	err := t.queryRow(ctx, truckColumns+`WHERE t.tid = ?;`, tid).
		Scan(&tr.ID, &tr.TruckType, &tr.WasteType, &tr.Capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return tr, fmt.Errorf("get truck %d: %w", tid, domain.ErrNotFound)
	}
	if err != nil {
		return tr, fmt.Errorf("get truck %d: scan row: %w", tid, err)
	}
	return tr, nil
}

func (t *sqlTx) TrucksByWasteType(ctx context.Context, wasteType string) ([]domain.Truck, error) {
	return t.listTrucks(ctx, truckColumns+`WHERE tt.waste_type = ? ORDER BY t.tid;`, wasteType)
}

func (t *sqlTx) ListTrucks(ctx context.Context) ([]domain.Truck, error) {
	return t.listTrucks(ctx, truckColumns+`ORDER BY t.tid;`)
}

func (t *sqlTx) listTrucks(ctx context.Context, q string, args ...any) ([]domain.Truck, error) {
	rows, err := t.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list trucks: query truck table: %w", err)
	}
	defer rows.Close()

	trucks := make([]domain.Truck, 0, 16)
	for rows.Next() {
		var tr domain.Truck
		if err := rows.Scan(&tr.ID, &tr.TruckType, &tr.WasteType, &tr.Capacity); err != nil {
			return nil, fmt.Errorf("list trucks: scan row: %w", err)
		}
		trucks = append(trucks, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trucks: row iteration: %w", err)
	}
	return trucks, nil
}

func (t *sqlTx) TruckTypeExists(ctx context.Context, truckType string) (bool, error) {
	var n int
	err := t.queryRow(ctx, `
	SELECT COUNT(*)
	FROM truck_type
	WHERE truck_type = ?;
	`, truckType).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("truck type exists: scan count: %w", err)
	}
	return n > 0, nil
}

func (t *sqlTx) FacilityByID(ctx context.Context, fid int) (domain.Facility, error) {
	var f domain.Facility
	err := t.queryRow(ctx, `
	SELECT fid, address, waste_type
	FROM facility
	WHERE fid = ?;
	`, fid).Scan(&f.ID, &f.Address, &f.WasteType)
	if errors.Is(err, sql.ErrNoRows) {
		return f, fmt.Errorf("get facility %d: %w", fid, domain.ErrNotFound)
	}
	if err != nil {
		return f, fmt.Errorf("get facility %d: scan row: %w", fid, err)
	}
	return f, nil
}

func (t *sqlTx) FacilitiesByWasteType(ctx context.Context, wasteType string) ([]domain.Facility, error) {
	rows, err := t.query(ctx, `
	SELECT fid, address, waste_type
	FROM facility
	WHERE waste_type = ?
	ORDER BY fid;
	`, wasteType)
	if err != nil {
		return nil, fmt.Errorf("list facilities: query facility table: %w", err)
	}
	defer rows.Close()

	facilities := make([]domain.Facility, 0, 4)
	for rows.Next() {
		var f domain.Facility
		if err := rows.Scan(&f.ID, &f.Address, &f.WasteType); err != nil {
			return nil, fmt.Errorf("list facilities: scan row: %w", err)
		}
		facilities = append(facilities, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list facilities: row iteration: %w", err)
	}
	return facilities, nil
}

func (t *sqlTx) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	rows, err := t.query(ctx, `
	SELECT eid, name, hire_date
	FROM employee
	ORDER BY eid;
	`)
	if err != nil {
		return nil, fmt.Errorf("list employees: query employee table: %w", err)
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0, 32)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("list employees: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list employees: row iteration: %w", err)
	}
	rows.Close()

	drives, err := t.capabilities(ctx, "driver", 0)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	maintains, err := t.capabilities(ctx, "technician", 0)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	for i := range employees {
		attachCapabilities(&employees[i], drives, maintains)
	}
	return employees, nil
}

func (t *sqlTx) EmployeeByName(ctx context.Context, name string) (domain.Employee, error) {
	rows, err := t.query(ctx, `
	SELECT eid, name, hire_date
	FROM employee
	WHERE name = ?;
	`, name)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("get employee %q: query employee table: %w", name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.Employee{}, fmt.Errorf("get employee %q: row iteration: %w", name, err)
		}
		return domain.Employee{}, fmt.Errorf("get employee %q: %w", name, domain.ErrNotFound)
	}
	e, err := scanEmployee(rows)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("get employee %q: %w", name, err)
	}
	rows.Close()

	drives, err := t.capabilities(ctx, "driver", e.ID)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("get employee %q: %w", name, err)
	}
	maintains, err := t.capabilities(ctx, "technician", e.ID)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("get employee %q: %w", name, err)
	}
	attachCapabilities(&e, drives, maintains)
	return e, nil
}

func scanEmployee(rows *sql.Rows) (domain.Employee, error) {
	var e domain.Employee
	var hired any
	if err := rows.Scan(&e.ID, &e.Name, &hired); err != nil {
		return e, fmt.Errorf("scan employee row: %w", err)
	}
	h, err := decodeTime(hired)
	if err != nil {
		return e, fmt.Errorf("employee %d hire date: %w", e.ID, err)
	}
	e.HireDate = h
	return e, nil
}

// capabilities loads eid -> truck types from the driver or technician table.
// eid 0 loads every employee.
func (t *sqlTx) capabilities(ctx context.Context, table string, eid int) (map[int][]string, error) {
	var q string
	switch table {
	case "driver":
		q = `SELECT eid, truck_type FROM driver`
	case "technician":
		q = `SELECT eid, truck_type FROM technician`
	default:
		return nil, fmt.Errorf("load capabilities: unknown table %q", table)
	}

	var (
		rows *sql.Rows
		err  error
	)
	if eid > 0 {
		rows, err = t.query(ctx, q+` WHERE eid = ? ORDER BY truck_type;`, eid)
	} else {
		rows, err = t.query(ctx, q+` ORDER BY eid, truck_type;`)
	}
	if err != nil {
		return nil, fmt.Errorf("load capabilities: query %s table: %w", table, err)
	}
	defer rows.Close()

	out := make(map[int][]string)
	for rows.Next() {
		var id int
		var truckType string
		if err := rows.Scan(&id, &truckType); err != nil {
			return nil, fmt.Errorf("load capabilities: scan %s row: %w", table, err)
		}
		out[id] = append(out[id], truckType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load capabilities: %s row iteration: %w", table, err)
	}
	return out, nil
}

func attachCapabilities(e *domain.Employee, drives, maintains map[int][]string) {
	if tts, ok := drives[e.ID]; ok {
		e.Driver = &domain.Capability{TruckTypes: tts}
	}
	if tts, ok := maintains[e.ID]; ok {
		e.Technician = &domain.Capability{TruckTypes: tts}
	}
}

const tripColumns = `
	SELECT tr.rid, tr.tid, tr.ttime, tr.volume, tr.eid1, tr.eid2, tr.fid, r.length
	FROM trip tr
	JOIN route r ON r.rid = tr.rid
`

func (t *sqlTx) TripsBetween(ctx context.Context, from, to time.Time) ([]domain.Trip, error) {
	return t.listTrips(ctx, tripColumns+`
	WHERE tr.ttime >= ? AND tr.ttime < ?
	ORDER BY tr.ttime, tr.rid;
	`, t.d.timeArg(from), t.d.timeArg(to))
}

func (t *sqlTx) FacilityTripsBetween(ctx context.Context, fid int, from, to time.Time) ([]domain.Trip, error) {
	return t.listTrips(ctx, tripColumns+`
	WHERE tr.fid = ? AND tr.ttime >= ? AND tr.ttime < ?
	ORDER BY tr.ttime, tr.rid;
	`, fid, t.d.timeArg(from), t.d.timeArg(to))
}

func (t *sqlTx) listTrips(ctx context.Context, q string, args ...any) ([]domain.Trip, error) {
	rows, err := t.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trip table: %w", err)
	}
	defer rows.Close()

	trips := make([]domain.Trip, 0, 16)
	for rows.Next() {
		var (
			tr     domain.Trip
			start  any
			volume sql.NullFloat64
		)
		if err := rows.Scan(&tr.RouteID, &tr.TruckID, &start, &volume, &tr.Driver1, &tr.Driver2, &tr.FacilityID, &tr.RouteLength); err != nil {
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}
		if tr.Start, err = decodeTime(start); err != nil {
			return nil, fmt.Errorf("list trips: route %d start: %w", tr.RouteID, err)
		}
		if volume.Valid {
			v := volume.Float64
			tr.Volume = &v
		}
		trips = append(trips, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}
	return trips, nil
}

func (t *sqlTx) CoDrivers(ctx context.Context, eid int) ([]int, error) {
	rows, err := t.query(ctx, `
	SELECT eid1, eid2
	FROM trip
	WHERE eid1 = ? OR eid2 = ?;
	`, eid, eid)
	if err != nil {
		return nil, fmt.Errorf("co-drivers of %d: query trip table: %w", eid, err)
	}
	defer rows.Close()

	seen := make(map[int]struct{})
	out := make([]int, 0, 8)
	for rows.Next() {
		var a, b int
		if err := rows.Scan(&a, &b); err != nil {
			return nil, fmt.Errorf("co-drivers of %d: scan row: %w", eid, err)
		}
		for _, id := range []int{a, b} {
			if id == eid {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("co-drivers of %d: row iteration: %w", eid, err)
	}
	return out, nil
}

func (t *sqlTx) MaintenanceBetween(ctx context.Context, from, to time.Time) ([]domain.Maintenance, error) {
	rows, err := t.query(ctx, `
	SELECT tid, eid, mdate
	FROM maintenance
	WHERE mdate >= ? AND mdate < ?
	ORDER BY mdate, tid;
	`, t.d.dateArg(from), t.d.dateArg(to))
	if err != nil {
		return nil, fmt.Errorf("list maintenance: query maintenance table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Maintenance, 0, 16)
	for rows.Next() {
		var m domain.Maintenance
		var date any
		if err := rows.Scan(&m.TruckID, &m.TechnicianID, &date); err != nil {
			return nil, fmt.Errorf("list maintenance: scan row: %w", err)
		}
		if m.Date, err = decodeTime(date); err != nil {
			return nil, fmt.Errorf("list maintenance: truck %d date: %w", m.TruckID, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list maintenance: row iteration: %w", err)
	}
	return out, nil
}

func (t *sqlTx) LastMaintenanceBefore(ctx context.Context, day time.Time) (map[int]time.Time, error) {
	rows, err := t.query(ctx, `
	SELECT tid, MAX(mdate)
	FROM maintenance
	WHERE mdate < ?
	GROUP BY tid;
	`, t.d.dateArg(day))
	if err != nil {
		return nil, fmt.Errorf("last maintenance: query maintenance table: %w", err)
	}
	defer rows.Close()

	out := make(map[int]time.Time)
	for rows.Next() {
		var tid int
		var last any
		if err := rows.Scan(&tid, &last); err != nil {
			return nil, fmt.Errorf("last maintenance: scan row: %w", err)
		}
		d, err := decodeTime(last)
		if err != nil {
			return nil, fmt.Errorf("last maintenance: truck %d: %w", tid, err)
		}
		out[tid] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("last maintenance: row iteration: %w", err)
	}
	return out, nil
}

func (t *sqlTx) InsertTrip(ctx context.Context, trip domain.Trip) error {
	var volume any
	if trip.Volume != nil {
		volume = *trip.Volume
	}

	_, err := t.exec(ctx, `
	INSERT INTO trip (rid, tid, ttime, volume, eid1, eid2, fid)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`, trip.RouteID, trip.TruckID, t.d.timeArg(trip.Start), volume, trip.Driver1, trip.Driver2, trip.FacilityID)
	if err != nil {
		return fmt.Errorf("insert trip route=%d truck=%d: %w", trip.RouteID, trip.TruckID, err)
	}
	return nil
}

func (t *sqlTx) InsertMaintenance(ctx context.Context, m domain.Maintenance) error {
	_, err := t.exec(ctx, `
	INSERT INTO maintenance (tid, eid, mdate)
	VALUES (?, ?, ?);
	`, m.TruckID, m.TechnicianID, t.d.dateArg(m.Date))
	if err != nil {
		return fmt.Errorf("insert maintenance truck=%d technician=%d: %w", m.TruckID, m.TechnicianID, err)
	}
	return nil
}

func (t *sqlTx) InsertTechnicianQualification(ctx context.Context, eid int, truckType string) error {
	_, err := t.exec(ctx, `
	INSERT INTO technician (eid, truck_type)
	VALUES (?, ?);
	`, eid, truckType)
	if err != nil {
		return fmt.Errorf("insert technician eid=%d truck_type=%q: %w", eid, truckType, err)
	}
	return nil
}

func (t *sqlTx) RerouteTrips(ctx context.Context, from, to int, start, end time.Time) (int, error) {
	res, err := t.exec(ctx, `
	UPDATE trip
	SET fid = ?
	WHERE fid = ? AND ttime >= ? AND ttime < ?;
	`, to, from, t.d.timeArg(start), t.d.timeArg(end))
	if err != nil {
		return 0, fmt.Errorf("reroute trips %d -> %d: %w", from, to, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reroute trips %d -> %d: rows affected: %w", from, to, err)
	}
	return int(n), nil
}
