package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixture describes a complete data set for the waste management schema.
// Dates use "2006-01-02"; timestamps use "2006-01-02 15:04[:05]".
type Fixture struct {
	TruckTypes  []TruckTypeSeed   `yaml:"truck_types"`
	Employees   []EmployeeSeed    `yaml:"employees"`
	Trucks      []TruckSeed       `yaml:"trucks"`
	Routes      []RouteSeed       `yaml:"routes"`
	Facilities  []FacilitySeed    `yaml:"facilities"`
	Trips       []TripSeed        `yaml:"trips"`
	Maintenance []MaintenanceSeed `yaml:"maintenance"`
}

type TruckTypeSeed struct {
	Name      string `yaml:"name"`
	WasteType string `yaml:"waste_type"`
}

type EmployeeSeed struct {
	ID        int      `yaml:"id"`
	Name      string   `yaml:"name"`
	HireDate  string   `yaml:"hire_date"`
	Drives    []string `yaml:"drives"`
	Maintains []string `yaml:"maintains"`
}

type TruckSeed struct {
	ID        int     `yaml:"id"`
	TruckType string  `yaml:"truck_type"`
	Capacity  float64 `yaml:"capacity"`
}

type RouteSeed struct {
	ID        int     `yaml:"id"`
	WasteType string  `yaml:"waste_type"`
	Length    float64 `yaml:"length"`
}

type FacilitySeed struct {
	ID        int    `yaml:"id"`
	Address   string `yaml:"address"`
	WasteType string `yaml:"waste_type"`
}

type TripSeed struct {
	Route    int      `yaml:"route"`
	Truck    int      `yaml:"truck"`
	Start    string   `yaml:"start"`
	Volume   *float64 `yaml:"volume"`
	Driver1  int      `yaml:"driver1"`
	Driver2  int      `yaml:"driver2"`
	Facility int      `yaml:"facility"`
}

type MaintenanceSeed struct {
	Truck      int    `yaml:"truck"`
	Technician int    `yaml:"technician"`
	Date       string `yaml:"date"`
}

// Populate the database with a fixture read from a YAML file.
func (s *SQLStore) SeedFromYAML(ctx context.Context, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", path, err)
	}

	var f Fixture
	if err := yaml.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("seed: parse yaml: %w", err)
	}

	return s.Seed(ctx, f)
}

// Seed inserts every row of f in one transaction.
func (s *SQLStore) Seed(ctx context.Context, f Fixture) error {
	if s.DB == nil {
		return errors.New("seed: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	exec := func(q string, args ...any) error {
		_, err := tx.ExecContext(ctx, s.Dialect.rebind(q), args...)
		return err
	}

	for _, tt := range f.TruckTypes {
		if strings.TrimSpace(tt.Name) == "" {
			return errors.New("seed: truck type name cannot be empty")
		}
		if err := exec(`INSERT INTO truck_type (truck_type, waste_type) VALUES (?, ?);`, tt.Name, tt.WasteType); err != nil {
			return fmt.Errorf("seed: insert truck type %q: %w", tt.Name, err)
		}
	}

	for i, e := range f.Employees {
		if e.ID <= 0 {
			return fmt.Errorf("seed: invalid employee id at index %d: %d", i+1, e.ID)
		}
		hired, err := parseTime(e.HireDate)
		if err != nil {
			return fmt.Errorf("seed: employee %d: %w", e.ID, err)
		}
		if err := exec(`INSERT INTO employee (eid, name, hire_date) VALUES (?, ?, ?);`, e.ID, e.Name, s.Dialect.dateArg(hired)); err != nil {
			return fmt.Errorf("seed: insert employee %d: %w", e.ID, err)
		}
		for _, tt := range e.Drives {
			if err := exec(`INSERT INTO driver (eid, truck_type) VALUES (?, ?);`, e.ID, tt); err != nil {
				return fmt.Errorf("seed: insert driver %d %q: %w", e.ID, tt, err)
			}
		}
		for _, tt := range e.Maintains {
			if err := exec(`INSERT INTO technician (eid, truck_type) VALUES (?, ?);`, e.ID, tt); err != nil {
				return fmt.Errorf("seed: insert technician %d %q: %w", e.ID, tt, err)
			}
		}
	}

	for i, t := range f.Trucks {
		if t.ID <= 0 {
			return fmt.Errorf("seed: invalid truck id at index %d: %d", i+1, t.ID)
		}
		if err := exec(`INSERT INTO truck (tid, truck_type, capacity) VALUES (?, ?, ?);`, t.ID, t.TruckType, t.Capacity); err != nil {
			return fmt.Errorf("seed: insert truck %d: %w", t.ID, err)
		}
	}

	for i, r := range f.Routes {
		if r.ID <= 0 {
			return fmt.Errorf("seed: invalid route id at index %d: %d", i+1, r.ID)
		}
		if err := exec(`INSERT INTO route (rid, waste_type, length) VALUES (?, ?, ?);`, r.ID, r.WasteType, r.Length); err != nil {
			return fmt.Errorf("seed: insert route %d: %w", r.ID, err)
		}
	}

	for i, fc := range f.Facilities {
		if fc.ID <= 0 {
			return fmt.Errorf("seed: invalid facility id at index %d: %d", i+1, fc.ID)
		}
		if err := exec(`INSERT INTO facility (fid, address, waste_type) VALUES (?, ?, ?);`, fc.ID, fc.Address, fc.WasteType); err != nil {
			return fmt.Errorf("seed: insert facility %d: %w", fc.ID, err)
		}
	}

	for i, tr := range f.Trips {
		start, err := parseTime(tr.Start)
		if err != nil {
			return fmt.Errorf("seed: trip at index %d: %w", i+1, err)
		}
		var volume any
		if tr.Volume != nil {
			volume = *tr.Volume
		}
		if err := exec(`
		INSERT INTO trip (rid, tid, ttime, volume, eid1, eid2, fid)
		VALUES (?, ?, ?, ?, ?, ?, ?);
		`, tr.Route, tr.Truck, s.Dialect.timeArg(start), volume, tr.Driver1, tr.Driver2, tr.Facility); err != nil {
			return fmt.Errorf("seed: insert trip at index %d: %w", i+1, err)
		}
	}

	for i, m := range f.Maintenance {
		date, err := parseTime(m.Date)
		if err != nil {
			return fmt.Errorf("seed: maintenance at index %d: %w", i+1, err)
		}
		if err := exec(`INSERT INTO maintenance (tid, eid, mdate) VALUES (?, ?, ?);`, m.Truck, m.Technician, s.Dialect.dateArg(date)); err != nil {
			return fmt.Errorf("seed: insert maintenance at index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}

// Count rows in a table; used by tooling and tests to check store state.
func (s *SQLStore) Count(ctx context.Context, table string) (int, error) {
	switch table {
	case "trip", "maintenance", "technician", "driver", "employee", "truck", "route", "facility", "truck_type":
	default:
		return 0, fmt.Errorf("count: unknown table %q", table)
	}

	var n int
	row := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+";")
	if err := row.Scan(&n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
