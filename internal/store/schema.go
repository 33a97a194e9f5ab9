package store

// schema is additive-only SQL (§6: "Schema migration is additive —
// existing columns are never renamed"). All timestamp columns are stored
// as RFC3339 UTC text, SQLite's idiomatic time-zone-aware representation.
const schema = `
CREATE TABLE IF NOT EXISTS raw_records (
	id              TEXT PRIMARY KEY,
	"timestamp"     TEXT NOT NULL,
	location        TEXT NOT NULL,
	latitude        REAL NOT NULL,
	longitude       REAL NOT NULL,
	aqi_value       INTEGER,
	traffic_level   INTEGER,
	aqi_category    TEXT,
	is_peak_hour    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_raw_records_location_ts ON raw_records(location, "timestamp");
CREATE INDEX IF NOT EXISTS idx_raw_records_ts ON raw_records("timestamp");

CREATE TABLE IF NOT EXISTS realtime_rows (
	location              TEXT NOT NULL,
	"timestamp"           TEXT NOT NULL,
	latitude              REAL NOT NULL,
	longitude             REAL NOT NULL,
	aqi_value             INTEGER,
	traffic_level         INTEGER,
	aqi_category          TEXT,
	is_peak_hour          INTEGER NOT NULL,
	processing_timestamp  TEXT NOT NULL,
	is_active             INTEGER NOT NULL,
	PRIMARY KEY (location, "timestamp")
);
CREATE INDEX IF NOT EXISTS idx_realtime_rows_proc_ts ON realtime_rows(processing_timestamp);
CREATE INDEX IF NOT EXISTS idx_realtime_rows_active ON realtime_rows(is_active);

CREATE TABLE IF NOT EXISTS hourly_aggregations (
	"date"            TEXT NOT NULL,
	hour              INTEGER NOT NULL,
	location          TEXT NOT NULL,
	avg_traffic_level REAL,
	avg_aqi_value     REAL,
	traffic_count     INTEGER NOT NULL DEFAULT 0,
	aqi_count         INTEGER NOT NULL DEFAULT 0,
	total_records     INTEGER NOT NULL DEFAULT 0,
	is_peak_hour      INTEGER NOT NULL,
	updated_at        TEXT NOT NULL,
	PRIMARY KEY ("date", hour, location)
);

-- hour is NOT NULL with a -1 sentinel for "whole day, no particular hour"
-- so the (date, location, hour) primary key stays unique: SQLite treats
-- NULL as distinct-from-NULL in unique indexes, which would let duplicate
-- whole-day rows slip past the idempotency guarantee.
CREATE TABLE IF NOT EXISTS daily_aggregations (
	"date"             TEXT NOT NULL,
	location           TEXT NOT NULL,
	hour               INTEGER NOT NULL DEFAULT -1,
	avg_traffic_level  REAL,
	min_traffic_level  INTEGER,
	max_traffic_level  INTEGER,
	avg_aqi_value      REAL,
	min_aqi_value      INTEGER,
	max_aqi_value      INTEGER,
	data_points_count  INTEGER NOT NULL DEFAULT 0,
	is_peak_hour       INTEGER NOT NULL,
	PRIMARY KEY ("date", location, hour)
);

CREATE TABLE IF NOT EXISTS peak_hour_summaries (
	analysis_date      TEXT PRIMARY KEY,
	peak_traffic_hour  INTEGER NOT NULL,
	peak_traffic_loc   TEXT NOT NULL,
	peak_traffic_avg   REAL NOT NULL,
	peak_aqi_hour      INTEGER NOT NULL,
	peak_aqi_loc       TEXT NOT NULL,
	peak_aqi_avg       REAL NOT NULL
);
`
