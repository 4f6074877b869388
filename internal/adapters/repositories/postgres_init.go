package repositories

var postgresSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS truck_type (
		truck_type TEXT PRIMARY KEY,
		waste_type TEXT NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS employee (
		eid INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		hire_date DATE NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS driver (
		eid INTEGER NOT NULL REFERENCES employee(eid),
		truck_type TEXT NOT NULL REFERENCES truck_type(truck_type),
		PRIMARY KEY (eid, truck_type)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS technician (
		eid INTEGER NOT NULL REFERENCES employee(eid),
		truck_type TEXT NOT NULL REFERENCES truck_type(truck_type),
		PRIMARY KEY (eid, truck_type)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS truck (
		tid INTEGER PRIMARY KEY,
		truck_type TEXT NOT NULL REFERENCES truck_type(truck_type),
		capacity DOUBLE PRECISION NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS route (
		rid INTEGER PRIMARY KEY,
		waste_type TEXT NOT NULL,
		length DOUBLE PRECISION NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS facility (
		fid INTEGER PRIMARY KEY,
		address TEXT NOT NULL DEFAULT '',
		waste_type TEXT NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS trip (
		rid INTEGER NOT NULL REFERENCES route(rid),
		tid INTEGER NOT NULL REFERENCES truck(tid),
		ttime TIMESTAMP NOT NULL,
		volume DOUBLE PRECISION,
		eid1 INTEGER NOT NULL REFERENCES employee(eid),
		eid2 INTEGER NOT NULL REFERENCES employee(eid),
		fid INTEGER NOT NULL REFERENCES facility(fid),
		PRIMARY KEY (tid, ttime),
		CHECK (eid1 <> eid2)
	);
	`,
	`
	CREATE UNIQUE INDEX IF NOT EXISTS idx_trip_route_day
	ON trip (rid, (ttime::date));
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_trip_ttime
	ON trip (ttime);
	`,
	`
	CREATE TABLE IF NOT EXISTS maintenance (
		tid INTEGER NOT NULL REFERENCES truck(tid),
		eid INTEGER NOT NULL REFERENCES employee(eid),
		mdate DATE NOT NULL,
		PRIMARY KEY (tid, mdate)
	);
	`,
	`
	CREATE UNIQUE INDEX IF NOT EXISTS idx_maintenance_technician_day
	ON maintenance (eid, mdate);
	`,
}
