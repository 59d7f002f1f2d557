package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"iodine-tracker/internal/measure"
	"iodine-tracker/internal/models"
)

const foodColumns = `id, description, category, serving_size, serving_measure,
        iodine_mcg, min, max, standardized_quantity, standardized_unit`

// RowSource loads the source dataset. It is only called when the catalog
// is empty.
type RowSource func() ([]models.SourceRow, error)

// Bootstrap prepares the catalog at startup: an empty catalog is ingested
// from load, a populated one only has missing standardized fields
// backfilled.
func (s *SQLiteStorage) Bootstrap(ctx context.Context, load RowSource) error {
	count, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		rows, err := load()
		if err != nil {
			return fmt.Errorf("failed to load dataset: %w", err)
		}
		_, err = s.Ingest(ctx, rows)
		return err
	}
	_, err = s.Backfill(ctx)
	return err
}

// Ingest loads rows into an empty catalog and reports how many records were
// written. It is a no-op when the catalog already holds records. A row
// that fails to map aborts the whole ingestion.
func (s *SQLiteStorage) Ingest(ctx context.Context, rows []models.SourceRow) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, unavailable("start transaction", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM foods`).Scan(&count); err != nil {
		return 0, unavailable("count foods", err)
	}
	if count > 0 {
		s.logger.Info("catalog already populated, skipping ingestion", zap.Int("records", count))
		return 0, nil
	}

	foods := make([]models.FoodRecord, 0, len(rows))
	for i, row := range rows {
		food, err := models.FoodFromSourceRow(row)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		foods = append(foods, food)
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO foods (
            description, category, serving_size, serving_measure,
            iodine_mcg, min, max, standardized_quantity, standardized_unit
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		return 0, unavailable("prepare food insert", err)
	}
	defer stmt.Close()

	for _, food := range foods {
		_, err := stmt.ExecContext(ctx,
			food.Description, food.Category, food.ServingSize, food.ServingMeasure,
			food.IodineMcg, food.Min, food.Max,
			food.StandardizedQuantity, unitValue(food.StandardizedUnit))
		if err != nil {
			return 0, unavailable("insert food", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, unavailable("commit ingestion", err)
	}
	s.logger.Info("ingested catalog", zap.Int("records", len(foods)))
	return len(foods), nil
}

// Backfill computes standardized serving fields for records missing either
// one and reports how many records were inspected.
func (s *SQLiteStorage) Backfill(ctx context.Context) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, unavailable("start transaction", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
        SELECT id, serving_size, serving_measure
        FROM foods
        WHERE standardized_quantity IS NULL OR standardized_unit IS NULL
    `)
	if err != nil {
		return 0, unavailable("query foods to backfill", err)
	}

	type pending struct {
		id       int64
		quantity *float64
		unit     *measure.Unit
	}
	var updates []pending
	for rows.Next() {
		var p pending
		var size, measureText string
		if err := rows.Scan(&p.id, &size, &measureText); err != nil {
			rows.Close()
			return 0, unavailable("scan food to backfill", err)
		}
		p.quantity, p.unit = measure.Normalize(size, measureText)
		updates = append(updates, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, unavailable("iterate foods to backfill", err)
	}
	rows.Close()

	for _, p := range updates {
		_, err := tx.ExecContext(ctx, `
            UPDATE foods
            SET standardized_quantity = ?, standardized_unit = ?
            WHERE id = ?
        `, p.quantity, unitValue(p.unit), p.id)
		if err != nil {
			return 0, unavailable("backfill food", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, unavailable("commit backfill", err)
	}
	if len(updates) > 0 {
		s.logger.Info("backfilled standardized servings", zap.Int("records", len(updates)))
	}
	return len(updates), nil
}

// Count returns the number of catalog records.
func (s *SQLiteStorage) Count(ctx context.Context) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM foods`).Scan(&count); err != nil {
		return 0, unavailable("count foods", err)
	}
	return count, nil
}

// ListCategories returns the distinct categories in ascending order.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT category FROM foods ORDER BY category`)
	if err != nil {
		return nil, unavailable("query categories", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, unavailable("scan category", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate categories", err)
	}
	return categories, nil
}

// Search returns foods whose description contains query, ignoring case.
// A blank query matches nothing.
func (s *SQLiteStorage) Search(ctx context.Context, query string) ([]models.FoodRecord, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []models.FoodRecord{}, nil
	}
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	return s.queryFoods(ctx, "search foods", `
        SELECT `+foodColumns+`
        FROM foods
        WHERE instr(LOWER(description), ?) > 0
        ORDER BY description, id
    `, query)
}

// ByCategory returns the foods in category. Unknown categories yield an
// empty result.
func (s *SQLiteStorage) ByCategory(ctx context.Context, category string) ([]models.FoodRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	return s.queryFoods(ctx, "query category", `
        SELECT `+foodColumns+`
        FROM foods
        WHERE category = ?
        ORDER BY description, id
    `, category)
}

// ByIDs returns the foods matching any of ids. Ids without a record are
// skipped.
func (s *SQLiteStorage) ByIDs(ctx context.Context, ids []int64) ([]models.FoodRecord, error) {
	if len(ids) == 0 {
		return []models.FoodRecord{}, nil
	}
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	return s.queryFoods(ctx, "query foods by id", `
        SELECT `+foodColumns+`
        FROM foods
        WHERE id IN (`+strings.Join(placeholders, ",")+`)
        ORDER BY id
    `, args...)
}

func (s *SQLiteStorage) queryFoods(ctx context.Context, action, query string, args ...interface{}) ([]models.FoodRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable(action, err)
	}
	defer rows.Close()

	foods := []models.FoodRecord{}
	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			return nil, unavailable(action, err)
		}
		foods = append(foods, food)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(action, err)
	}
	return foods, nil
}

// scanFood maps a stored row. Nullable columns map to absent fields. A stored
// unit outside the canonical set leaves the serving unstandardized.
func scanFood(rows *sql.Rows) (models.FoodRecord, error) {
	var food models.FoodRecord
	var min, max, quantity sql.NullFloat64
	var unit sql.NullString

	err := rows.Scan(
		&food.ID, &food.Description, &food.Category, &food.ServingSize,
		&food.ServingMeasure, &food.IodineMcg, &min, &max, &quantity, &unit)
	if err != nil {
		return models.FoodRecord{}, err
	}

	food.Min = nullableFloat(min)
	food.Max = nullableFloat(max)
	if u := measure.Unit(unit.String); unit.Valid && quantity.Valid && u.Valid() {
		food.StandardizedQuantity = nullableFloat(quantity)
		food.StandardizedUnit = &u
	}
	return food, nil
}

func nullableFloat(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	f := value.Float64
	return &f
}

func unitValue(unit *measure.Unit) interface{} {
	if unit == nil {
		return nil
	}
	return string(*unit)
}
