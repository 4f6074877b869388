package repositories

// SQLite keeps timestamps as "2006-01-02 15:04:05" TEXT and dates as
// "2006-01-02" TEXT so that string order matches time order.
var sqliteSchema = []string{
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
		hire_date TEXT NOT NULL
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
		capacity REAL NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS route (
		rid INTEGER PRIMARY KEY,
		waste_type TEXT NOT NULL,
		length REAL NOT NULL
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
		ttime TEXT NOT NULL,
		volume REAL,
		eid1 INTEGER NOT NULL REFERENCES employee(eid),
		eid2 INTEGER NOT NULL REFERENCES employee(eid),
		fid INTEGER NOT NULL REFERENCES facility(fid),
		PRIMARY KEY (tid, ttime),
		CHECK (eid1 <> eid2)
	);
	`,
	`
	CREATE UNIQUE INDEX IF NOT EXISTS idx_trip_route_day
	ON trip(rid, substr(ttime, 1, 10));
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_trip_ttime
	ON trip(ttime);
	`,
	`
	CREATE TABLE IF NOT EXISTS maintenance (
		tid INTEGER NOT NULL REFERENCES truck(tid),
		eid INTEGER NOT NULL REFERENCES employee(eid),
		mdate TEXT NOT NULL,
		PRIMARY KEY (tid, mdate)
	);
	`,
	`
	CREATE UNIQUE INDEX IF NOT EXISTS idx_maintenance_technician_day
	ON maintenance(eid, mdate);
	`,
}
