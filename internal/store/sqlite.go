package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, no cgo

	"trafficaqi/internal/model"
)

const dailyHourSentinel = -1

// SQLiteStore implements Store on top of database/sql + modernc.org/sqlite,
// mirroring the codebase's existing WAL-mode, single-writer configuration
// for embedded SQLite databases.
type SQLiteStore struct {
	db *sql.DB
}

// Config configures SQLiteStore's connection.
type Config struct {
	Path        string
	JournalMode string
	Synchronous string
	BusyTimeoutMS int
}

// DefaultConfig returns the standard WAL/NORMAL configuration.
func DefaultConfig(path string) Config {
	return Config{
		Path:          path,
		JournalMode:   "WAL",
		Synchronous:   "NORMAL",
		BusyTimeoutMS: 5000,
	}
}

// Open opens (and migrates) a SQLiteStore.
func Open(ctx context.Context, cfg Config) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", cfg.Path))
	if err != nil {
		return nil, &StoreUnavailable{Op: "open", Cause: err}
	}

	// SQLite only supports one writer; match the teacher's connection-pool
	// discipline instead of racing writers through database/sql's pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &StoreUnavailable{Op: "ping", Cause: err}
	}

	pragmas := []string{
		fmt.Sprintf("PRAGMA journal_mode=%s", cfg.JournalMode),
		fmt.Sprintf("PRAGMA synchronous=%s", cfg.Synchronous),
		fmt.Sprintf("PRAGMA busy_timeout=%d", cfg.BusyTimeoutMS),
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, &StoreUnavailable{Op: "pragma", Cause: err}
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, &StoreUnavailable{Op: "migrate", Cause: err}
	}

	return &SQLiteStore{db: db}, nil
}

// OpenInMemory opens a private, in-memory database, used by tests.
func OpenInMemory(ctx context.Context) (*SQLiteStore, error) {
	return Open(ctx, Config{Path: ":memory:", JournalMode: "MEMORY", Synchronous: "OFF", BusyTimeoutMS: 5000})
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &StoreUnavailable{Op: "ping", Cause: err}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AppendRaw(ctx context.Context, rec model.RawRecord) error {
	var cat *string
	if rec.AQICategory != nil {
		v := string(*rec.AQICategory)
		cat = &v
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO raw_records (id, "timestamp", location, latitude, longitude, aqi_value, traffic_level, aqi_category, is_peak_hour)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Timestamp.UTC().Format(time.RFC3339Nano), rec.Location, rec.Latitude, rec.Longitude,
		rec.AQIValue, rec.TrafficLevel, cat, boolToInt(rec.IsPeakHour))
	if err != nil {
		return &StoreUnavailable{Op: "append_raw", Cause: err}
	}
	return nil
}

func (s *SQLiteStore) UpsertRealtime(ctx context.Context, row model.RealtimeRow) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, &StoreUnavailable{Op: "upsert_realtime.begin", Cause: err}
	}
	defer tx.Rollback() //nolint:errcheck // no-op if committed

	inserted, err := upsertRealtimeTx(ctx, tx, row)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, &StoreUnavailable{Op: "upsert_realtime.commit", Cause: err}
	}
	return inserted, nil
}

// upsertRealtimeTx performs the insert-or-overwrite of the realtime row
// within an already-open transaction, without committing it. Factored out
// so IngestRealtimeSample can run it and the hourly increment together
// inside one transaction (see that method's doc comment).
func upsertRealtimeTx(ctx context.Context, tx *sql.Tx, row model.RealtimeRow) (bool, error) {
	ts := row.Timestamp.UTC().Format(time.RFC3339Nano)

	var exists int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM realtime_rows WHERE location = ? AND "timestamp" = ?`,
		row.Location, ts).Scan(&exists)
	inserted := errors.Is(err, sql.ErrNoRows)
	if err != nil && !inserted {
		return false, &StoreUnavailable{Op: "upsert_realtime.select", Cause: err}
	}

	var cat *string
	if row.AQICategory != nil {
		v := string(*row.AQICategory)
		cat = &v
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO realtime_rows (location, "timestamp", latitude, longitude, aqi_value, traffic_level, aqi_category, is_peak_hour, processing_timestamp, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(location, "timestamp") DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			aqi_value = excluded.aqi_value,
			traffic_level = excluded.traffic_level,
			aqi_category = excluded.aqi_category,
			is_peak_hour = excluded.is_peak_hour,
			processing_timestamp = excluded.processing_timestamp,
			is_active = 1
	`, row.Location, ts, row.Latitude, row.Longitude, row.AQIValue, row.TrafficLevel, cat,
		boolToInt(row.IsPeakHour), row.ProcessingTimestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return false, &StoreUnavailable{Op: "upsert_realtime.exec", Cause: err}
	}

	return inserted, nil
}

func (s *SQLiteStore) EvictStaleRealtime(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE realtime_rows SET is_active = 0 WHERE is_active = 1 AND processing_timestamp < ?`,
		cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, &StoreUnavailable{Op: "evict_stale_realtime", Cause: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &StoreUnavailable{Op: "evict_stale_realtime.rows_affected", Cause: err}
	}
	return int(n), nil
}

// UpsertHourlyIncrement performs the atomic incremental-average update of
// §4.3 on its own. Because SQLiteStore forces a single writer connection,
// the select-then-write pair inside one transaction cannot race with
// another writer; this is the same atomicity guarantee the spec asks for
// via "the store's native conflict resolution on the unique key" (§5).
//
// The Speed Layer does not call this directly — see IngestRealtimeSample,
// which runs this same logic inside the realtime upsert's own transaction
// so the two writes commit or roll back together.
func (s *SQLiteStore) UpsertHourlyIncrement(ctx context.Context, date time.Time, hour int, location string, trafficLevel, aqiValue *int, isPeakHour bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StoreUnavailable{Op: "upsert_hourly.begin", Cause: err}
	}
	defer tx.Rollback() //nolint:errcheck

	if err := upsertHourlyIncrementTx(ctx, tx, date, hour, location, trafficLevel, aqiValue, isPeakHour); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &StoreUnavailable{Op: "upsert_hourly.commit", Cause: err}
	}
	return nil
}

// upsertHourlyIncrementTx is UpsertHourlyIncrement's body, factored out so
// IngestRealtimeSample can run it inside the caller's own transaction.
func upsertHourlyIncrementTx(ctx context.Context, tx *sql.Tx, date time.Time, hour int, location string, trafficLevel, aqiValue *int, isPeakHour bool) error {
	dateStr := date.UTC().Format("2006-01-02")

	var (
		curTrafficAvg sql.NullFloat64
		curAQIAvg     sql.NullFloat64
		curTrafficCnt int
		curAQICnt     int
		curTotal      int
	)
	err := tx.QueryRowContext(ctx, `
		SELECT avg_traffic_level, avg_aqi_value, traffic_count, aqi_count, total_records
		FROM hourly_aggregations WHERE "date" = ? AND hour = ? AND location = ?
	`, dateStr, hour, location).Scan(&curTrafficAvg, &curAQIAvg, &curTrafficCnt, &curAQICnt, &curTotal)

	exists := !errors.Is(err, sql.ErrNoRows)
	if err != nil && exists {
		return &StoreUnavailable{Op: "upsert_hourly.select", Cause: err}
	}

	newTrafficAvg, newTrafficCnt := incrementAverage(curTrafficAvg, curTrafficCnt, trafficLevel)
	newAQIAvg, newAQICnt := incrementAverage(curAQIAvg, curAQICnt, aqiValue)
	newTotal := curTotal + 1

	now := time.Now().UTC().Format(time.RFC3339Nano)

	if !exists {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO hourly_aggregations ("date", hour, location, avg_traffic_level, avg_aqi_value, traffic_count, aqi_count, total_records, is_peak_hour, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, dateStr, hour, location, nullableFloat(newTrafficAvg), nullableFloat(newAQIAvg), newTrafficCnt, newAQICnt, newTotal, boolToInt(isPeakHour), now)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE hourly_aggregations
			SET avg_traffic_level = ?, avg_aqi_value = ?, traffic_count = ?, aqi_count = ?, total_records = ?, is_peak_hour = ?, updated_at = ?
			WHERE "date" = ? AND hour = ? AND location = ?
		`, nullableFloat(newTrafficAvg), nullableFloat(newAQIAvg), newTrafficCnt, newAQICnt, newTotal, boolToInt(isPeakHour), now, dateStr, hour, location)
	}
	if err != nil {
		return &StoreUnavailable{Op: "upsert_hourly.write", Cause: err}
	}
	return nil
}

// IngestRealtimeSample performs the Speed Layer's steps 2-3 (§4.4) as one
// atomic transaction: the idempotent realtime upsert, and — only when that
// upsert actually inserts a brand-new (location, timestamp) row rather than
// overwriting an existing one — the hourly increment for the same sample.
//
// Splitting these two writes across separate transactions left a gap: if
// the realtime upsert committed but the hourly increment then failed
// transiently, the record would be redelivered, the realtime upsert would
// now overwrite instead of insert, and the hourly increment would be
// skipped forever — permanently undercounting that hour (or, for the
// bucket's first sample, never creating the row at all). Running both
// writes in the same transaction means a failure on either side rolls
// back both, so redelivery retries the full pair instead of silently
// losing the increment.
func (s *SQLiteStore) IngestRealtimeSample(ctx context.Context, row model.RealtimeRow, date time.Time, hour int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StoreUnavailable{Op: "ingest_realtime_sample.begin", Cause: err}
	}
	defer tx.Rollback() //nolint:errcheck // no-op if committed

	inserted, err := upsertRealtimeTx(ctx, tx, row)
	if err != nil {
		return err
	}

	if inserted {
		if err := upsertHourlyIncrementTx(ctx, tx, date, hour, row.Location, row.TrafficLevel, row.AQIValue, row.IsPeakHour); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return &StoreUnavailable{Op: "ingest_realtime_sample.commit", Cause: err}
	}
	return nil
}

// incrementAverage applies avg' = (avg*n + x) / (n+1) when x is present,
// leaving the average and its count untouched when x is absent (§9 open
// question 2: per-metric counts, not a shared blended count).
func incrementAverage(cur sql.NullFloat64, n int, x *int) (float64, int) {
	if x == nil {
		if cur.Valid {
			return cur.Float64, n
		}
		return 0, n
	}
	val := float64(*x)
	if !cur.Valid || n == 0 {
		return val, 1
	}
	return (cur.Float64*float64(n) + val) / float64(n+1), n + 1
}

func (s *SQLiteStore) WriteHourly(ctx context.Context, agg model.HourlyAggregation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hourly_aggregations ("date", hour, location, avg_traffic_level, avg_aqi_value, traffic_count, aqi_count, total_records, is_peak_hour, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT("date", hour, location) DO UPDATE SET
			avg_traffic_level = excluded.avg_traffic_level,
			avg_aqi_value = excluded.avg_aqi_value,
			traffic_count = excluded.traffic_count,
			aqi_count = excluded.aqi_count,
			total_records = excluded.total_records,
			is_peak_hour = excluded.is_peak_hour,
			updated_at = excluded.updated_at
	`, agg.Date.UTC().Format("2006-01-02"), agg.Hour, agg.Location,
		nullableFloatPtr(agg.AvgTrafficLevel), nullableFloatPtr(agg.AvgAQIValue),
		agg.TrafficCount, agg.AQICount, agg.TotalRecords, boolToInt(agg.IsPeakHour),
		agg.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return &StoreUnavailable{Op: "write_hourly", Cause: err}
	}
	return nil
}

func (s *SQLiteStore) WriteDaily(ctx context.Context, rec model.DailyAggregation) error {
	hour := dailyHourSentinel
	if rec.Hour != nil {
		hour = *rec.Hour
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_aggregations ("date", location, hour, avg_traffic_level, min_traffic_level, max_traffic_level, avg_aqi_value, min_aqi_value, max_aqi_value, data_points_count, is_peak_hour)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT("date", location, hour) DO UPDATE SET
			avg_traffic_level = excluded.avg_traffic_level,
			min_traffic_level = excluded.min_traffic_level,
			max_traffic_level = excluded.max_traffic_level,
			avg_aqi_value = excluded.avg_aqi_value,
			min_aqi_value = excluded.min_aqi_value,
			max_aqi_value = excluded.max_aqi_value,
			data_points_count = excluded.data_points_count,
			is_peak_hour = excluded.is_peak_hour
	`, rec.Date.UTC().Format("2006-01-02"), rec.Location, hour,
		nullableFloatPtr(rec.AvgTrafficLevel), rec.MinTrafficLevel, rec.MaxTrafficLevel,
		nullableFloatPtr(rec.AvgAQIValue), rec.MinAQIValue, rec.MaxAQIValue,
		rec.DataPointsCount, boolToInt(rec.IsPeakHour))
	if err != nil {
		return &StoreUnavailable{Op: "write_daily", Cause: err}
	}
	return nil
}

func (s *SQLiteStore) WritePeak(ctx context.Context, rec model.PeakHourSummary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO peak_hour_summaries (analysis_date, peak_traffic_hour, peak_traffic_loc, peak_traffic_avg, peak_aqi_hour, peak_aqi_loc, peak_aqi_avg)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(analysis_date) DO UPDATE SET
			peak_traffic_hour = excluded.peak_traffic_hour,
			peak_traffic_loc = excluded.peak_traffic_loc,
			peak_traffic_avg = excluded.peak_traffic_avg,
			peak_aqi_hour = excluded.peak_aqi_hour,
			peak_aqi_loc = excluded.peak_aqi_loc,
			peak_aqi_avg = excluded.peak_aqi_avg
	`, rec.AnalysisDate.UTC().Format("2006-01-02"), rec.PeakTrafficHour, rec.PeakTrafficLoc, rec.PeakTrafficAvg,
		rec.PeakAQIHour, rec.PeakAQILoc, rec.PeakAQIAvg)
	if err != nil {
		return &StoreUnavailable{Op: "write_peak", Cause: err}
	}
	return nil
}

func (s *SQLiteStore) FetchRecentRealtime(ctx context.Context, maxAge time.Duration) ([]model.RealtimeRow, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(time.RFC3339Nano)
	rows, err := s.db.QueryContext(ctx, `
		SELECT location, "timestamp", latitude, longitude, aqi_value, traffic_level, aqi_category, is_peak_hour, processing_timestamp, is_active
		FROM realtime_rows
		WHERE is_active = 1 AND processing_timestamp >= ?
		ORDER BY "timestamp" DESC
	`, cutoff)
	if err != nil {
		return nil, &StoreUnavailable{Op: "fetch_recent_realtime", Cause: err}
	}
	defer rows.Close()

	var out []model.RealtimeRow
	for rows.Next() {
		var (
			r        model.RealtimeRow
			ts, proc string
			cat      *string
			active   int
		)
		if err := rows.Scan(&r.Location, &ts, &r.Latitude, &r.Longitude, &r.AQIValue, &r.TrafficLevel, &cat, &r.IsPeakHour, &proc, &active); err != nil {
			return nil, &StoreUnavailable{Op: "fetch_recent_realtime.scan", Cause: err}
		}
		r.Timestamp = mustParseTime(ts)
		r.ProcessingTimestamp = mustParseTime(proc)
		r.IsActive = active != 0
		r.AQICategory = categoryPtr(cat)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) FetchHourly(ctx context.Context, days int) ([]model.HourlyAggregation, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
	rows, err := s.db.QueryContext(ctx, `
		SELECT "date", hour, location, avg_traffic_level, avg_aqi_value, traffic_count, aqi_count, total_records, is_peak_hour, updated_at
		FROM hourly_aggregations
		WHERE "date" >= ?
		ORDER BY location, "date", hour
	`, cutoff)
	if err != nil {
		return nil, &StoreUnavailable{Op: "fetch_hourly", Cause: err}
	}
	defer rows.Close()
	return scanHourlyRows(rows)
}

func (s *SQLiteStore) FetchHourlyWindow(ctx context.Context, date time.Time) ([]model.HourlyAggregation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT "date", hour, location, avg_traffic_level, avg_aqi_value, traffic_count, aqi_count, total_records, is_peak_hour, updated_at
		FROM hourly_aggregations
		WHERE "date" = ?
		ORDER BY location, hour
	`, date.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, &StoreUnavailable{Op: "fetch_hourly_window", Cause: err}
	}
	defer rows.Close()
	return scanHourlyRows(rows)
}

func scanHourlyRows(rows *sql.Rows) ([]model.HourlyAggregation, error) {
	var out []model.HourlyAggregation
	for rows.Next() {
		var (
			a                model.HourlyAggregation
			dateStr, updated string
			peak             int
			trafficAvg       sql.NullFloat64
			aqiAvg           sql.NullFloat64
		)
		if err := rows.Scan(&dateStr, &a.Hour, &a.Location, &trafficAvg, &aqiAvg, &a.TrafficCount, &a.AQICount, &a.TotalRecords, &peak, &updated); err != nil {
			return nil, &StoreUnavailable{Op: "fetch_hourly.scan", Cause: err}
		}
		a.Date = mustParseDate(dateStr)
		a.IsPeakHour = peak != 0
		a.UpdatedAt = mustParseTime(updated)
		if trafficAvg.Valid {
			v := trafficAvg.Float64
			a.AvgTrafficLevel = &v
		}
		if aqiAvg.Valid {
			v := aqiAvg.Float64
			a.AvgAQIValue = &v
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) FetchRawWindow(ctx context.Context, from, to time.Time) ([]model.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, "timestamp", location, latitude, longitude, aqi_value, traffic_level, aqi_category, is_peak_hour
		FROM raw_records
		WHERE "timestamp" >= ? AND "timestamp" < ?
		ORDER BY location, "timestamp"
	`, from.UTC().Format(time.RFC3339Nano), to.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, &StoreUnavailable{Op: "fetch_raw_window", Cause: err}
	}
	defer rows.Close()
	return scanRawRows(rows)
}

func (s *SQLiteStore) FetchLatestRawPerLocation(ctx context.Context) ([]model.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r."timestamp", r.location, r.latitude, r.longitude, r.aqi_value, r.traffic_level, r.aqi_category, r.is_peak_hour
		FROM raw_records r
		INNER JOIN (
			SELECT location, MAX("timestamp") AS max_ts FROM raw_records GROUP BY location
		) latest ON latest.location = r.location AND latest.max_ts = r."timestamp"
		ORDER BY r.location
	`)
	if err != nil {
		return nil, &StoreUnavailable{Op: "fetch_latest_raw_per_location", Cause: err}
	}
	defer rows.Close()
	return scanRawRows(rows)
}

func scanRawRows(rows *sql.Rows) ([]model.RawRecord, error) {
	var out []model.RawRecord
	for rows.Next() {
		var (
			r   model.RawRecord
			ts  string
			cat *string
		)
		if err := rows.Scan(&r.ID, &ts, &r.Location, &r.Latitude, &r.Longitude, &r.AQIValue, &r.TrafficLevel, &cat, &r.IsPeakHour); err != nil {
			return nil, &StoreUnavailable{Op: "raw.scan", Cause: err}
		}
		r.Timestamp = mustParseTime(ts)
		r.AQICategory = categoryPtr(cat)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) FetchPeakSummary(ctx context.Context, date time.Time) (*model.PeakHourSummary, error) {
	var rec model.PeakHourSummary
	var dateStr string
	err := s.db.QueryRowContext(ctx, `
		SELECT analysis_date, peak_traffic_hour, peak_traffic_loc, peak_traffic_avg, peak_aqi_hour, peak_aqi_loc, peak_aqi_avg
		FROM peak_hour_summaries WHERE analysis_date = ?
	`, date.UTC().Format("2006-01-02")).Scan(&dateStr, &rec.PeakTrafficHour, &rec.PeakTrafficLoc, &rec.PeakTrafficAvg,
		&rec.PeakAQIHour, &rec.PeakAQILoc, &rec.PeakAQIAvg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreUnavailable{Op: "fetch_peak_summary", Cause: err}
	}
	rec.AnalysisDate = mustParseDate(dateStr)
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableFloat(v float64) *float64 {
	return &v
}

func nullableFloatPtr(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func categoryPtr(s *string) *model.AQICategory {
	if s == nil {
		return nil
	}
	c := model.AQICategory(*s)
	return &c
}

func mustParseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func mustParseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
