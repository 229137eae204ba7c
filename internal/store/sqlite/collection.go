package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/sakif/trippila/internal/model"
	"github.com/sakif/trippila/internal/store"
)

var _ store.Collection = (*collection)(nil)

// fieldName restricts filter keys to plain identifiers so they can be
// embedded in a JSON path without quoting.
var fieldName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type collection struct {
	db    *sql.DB
	table string
}

func (c *collection) FindOne(ctx context.Context, filter store.Filter) (model.Document, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, err
	}

	id, doc, err := c.first(ctx, c.db, where, args)
	if err != nil {
		return nil, err
	}
	return decode(id, doc)
}

func (c *collection) Find(ctx context.Context, filter store.Filter, opts store.FindOptions) ([]model.Document, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, err
	}

	// SQLite only accepts OFFSET after a LIMIT; -1 means "no limit".
	limit := int64(-1)
	if opts.Limit > 0 {
		limit = opts.Limit
	}
	args = append(args, limit, opts.Skip)

	rows, err := c.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, doc FROM %s WHERE %s ORDER BY rowid LIMIT ? OFFSET ?`, c.table, where),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: finding in %s: %w", c.table, err)
	}
	// ALWAYS close rows: an open result set pins a connection.
	defer rows.Close()

	docs := []model.Document{}
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("sqlite: scanning %s row: %w", c.table, err)
		}
		doc, err := decode(id, raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating %s rows: %w", c.table, err)
	}

	return docs, nil
}

func (c *collection) Count(ctx context.Context, filter store.Filter) (int64, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return 0, err
	}

	var n int64
	err = c.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, c.table, where),
		args...,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting %s: %w", c.table, err)
	}
	return n, nil
}

func (c *collection) InsertOne(ctx context.Context, doc model.Document) (model.ID, error) {
	id := model.NewID()

	raw, err := encode(doc)
	if err != nil {
		return model.ID{}, err
	}

	_, err = c.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES (?, ?)`, c.table),
		id.String(), raw,
	)
	if err != nil {
		return model.ID{}, fmt.Errorf("sqlite: inserting into %s: %w", c.table, err)
	}
	return id, nil
}

func (c *collection) UpdateOne(ctx context.Context, filter store.Filter, set model.Document) (store.UpdateResult, error) {
	return c.modifyFirst(ctx, filter, func(doc model.Document) (bool, error) {
		for k, v := range set {
			if k == model.IDField {
				continue
			}
			doc[k] = v
		}
		return true, nil
	})
}

func (c *collection) AddToSet(ctx context.Context, filter store.Filter, field string, value any) (store.UpdateResult, error) {
	normalized, err := normalize(value)
	if err != nil {
		return store.UpdateResult{}, err
	}

	return c.modifyFirst(ctx, filter, func(doc model.Document) (bool, error) {
		var items []any
		switch existing := doc[field].(type) {
		case nil:
		case []any:
			items = existing
		default:
			return false, fmt.Errorf("sqlite: cannot add to non-array field %q", field)
		}

		for _, item := range items {
			if reflect.DeepEqual(item, normalized) {
				return false, nil
			}
		}
		doc[field] = append(items, normalized)
		return true, nil
	})
}

func (c *collection) DeleteOne(ctx context.Context, filter store.Filter) (int64, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return 0, err
	}

	res, err := c.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %[1]s WHERE id IN (SELECT id FROM %[1]s WHERE %[2]s ORDER BY rowid LIMIT 1)`, c.table, where),
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting from %s: %w", c.table, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: reading rows affected: %w", err)
	}
	return n, nil
}

// modifyFirst loads the first matching document inside a transaction, lets
// mutate change it, and writes it back when the JSON actually changed.
// mutate returns false when it decided not to touch the document.
func (c *collection) modifyFirst(ctx context.Context, filter store.Filter, mutate func(model.Document) (bool, error)) (store.UpdateResult, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return store.UpdateResult{}, err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	// Rollback after Commit is a no-op, so this is safe on every path.
	defer tx.Rollback()

	id, raw, err := c.first(ctx, tx, where, args)
	if errors.Is(err, store.ErrNoDocument) {
		return store.UpdateResult{}, nil
	}
	if err != nil {
		return store.UpdateResult{}, err
	}

	doc := model.Document{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return store.UpdateResult{}, fmt.Errorf("sqlite: decoding %s/%s: %w", c.table, id, err)
	}

	changed, err := mutate(doc)
	if err != nil {
		return store.UpdateResult{}, err
	}
	if !changed {
		return store.UpdateResult{Matched: 1}, nil
	}

	updated, err := encode(doc)
	if err != nil {
		return store.UpdateResult{}, err
	}
	if updated == raw {
		return store.UpdateResult{Matched: 1}, nil
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET doc = ? WHERE id = ?`, c.table),
		updated, id,
	); err != nil {
		return store.UpdateResult{}, fmt.Errorf("sqlite: updating %s/%s: %w", c.table, id, err)
	}

	if err := tx.Commit(); err != nil {
		return store.UpdateResult{}, fmt.Errorf("sqlite: committing update: %w", err)
	}
	return store.UpdateResult{Matched: 1, Modified: 1}, nil
}

func (c *collection) first(ctx context.Context, q querier, where string, args []any) (string, string, error) {
	var id, raw string
	err := q.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id, doc FROM %s WHERE %s ORDER BY rowid LIMIT 1`, c.table, where),
		args...,
	).Scan(&id, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", store.ErrNoDocument
	}
	if err != nil {
		return "", "", fmt.Errorf("sqlite: querying %s: %w", c.table, err)
	}
	return id, raw, nil
}

// buildWhere turns a filter into a WHERE clause. Keys are sorted so the same
// filter always produces the same SQL.
func buildWhere(filter store.Filter) (string, []any, error) {
	if len(filter) == 0 {
		return "1 = 1", nil, nil
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	var args []any

	for _, k := range keys {
		v := filter[k]

		if k == model.IDField {
			id, ok := v.(model.ID)
			if !ok {
				// An _id of any other type can never equal a stored ID.
				clauses = append(clauses, "1 = 0")
				continue
			}
			clauses = append(clauses, "id = ?")
			args = append(args, id.String())
			continue
		}

		if !fieldName.MatchString(k) {
			return "", nil, fmt.Errorf("sqlite: unsupported filter field %q", k)
		}
		path := "'$." + k + "'"

		switch val := v.(type) {
		case nil:
			clauses = append(clauses, fmt.Sprintf("(json_type(doc, %s) IS NULL OR json_type(doc, %s) = 'null')", path, path))
		case bool:
			want := "false"
			if val {
				want = "true"
			}
			clauses = append(clauses, fmt.Sprintf("json_type(doc, %s) = '%s'", path, want))
		case string:
			clauses = append(clauses, fmt.Sprintf("json_type(doc, %s) = 'text' AND json_extract(doc, %s) = ?", path, path))
			args = append(args, val)
		case model.ID:
			clauses = append(clauses, fmt.Sprintf("json_type(doc, %s) = 'text' AND json_extract(doc, %s) = ?", path, path))
			args = append(args, val.String())
		case int, int32, int64, float32, float64:
			clauses = append(clauses, fmt.Sprintf("json_type(doc, %s) IN ('integer', 'real') AND json_extract(doc, %s) = ?", path, path))
			args = append(args, val)
		default:
			return "", nil, fmt.Errorf("sqlite: unsupported filter value %T for %q", v, k)
		}
	}

	return strings.Join(clauses, " AND "), args, nil
}

func encode(doc model.Document) (string, error) {
	b, err := json.Marshal(doc.Without(model.IDField))
	if err != nil {
		return "", fmt.Errorf("sqlite: encoding document: %w", err)
	}
	return string(b), nil
}

func decode(id, raw string) (model.Document, error) {
	doc := model.Document{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("sqlite: decoding document %s: %w", id, err)
	}

	parsed, err := model.ParseID(id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: stored id %q: %w", id, err)
	}
	doc[model.IDField] = parsed
	return doc, nil
}

// normalize gives a value the shape it will have after a JSON round trip,
// so it can be compared with values read back from the database.
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("sqlite: encoding value: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("sqlite: decoding value: %w", err)
	}
	return out, nil
}
