package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"pricelist/internal/domain"
)

const timeFormat = time.RFC3339Nano

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	username TEXT PRIMARY KEY,
	password TEXT NOT NULL,
	is_admin INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS items (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	price     REAL NOT NULL,
	unit      TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	available INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS orders (
	id           TEXT PRIMARY KEY,
	username     TEXT NOT NULL,
	total_amount REAL NOT NULL,
	status       TEXT NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS order_lines (
	order_id TEXT NOT NULL REFERENCES orders(id),
	item_id  TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price    REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_username ON orders(username);
CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines(order_id);
`

// SQLiteStore is a sqlite-backed store behind the repository interfaces.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed initializes) a sqlite store at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Items returns the item repository view of the store.
func (s *SQLiteStore) Items() ItemRepository { return sqliteItems{s} }

// Accounts returns the account repository view of the store.
func (s *SQLiteStore) Accounts() AccountRepository { return sqliteAccounts{s} }

// Orders returns the order repository view of the store.
func (s *SQLiteStore) Orders() OrderRepository { return sqliteOrders{s} }

var _ TxManager = (*SQLiteStore)(nil)

type sqliteTxKey struct{}

// WithTransaction runs fn inside a single database transaction. Repository
// calls made with the returned context join that transaction.
func (s *SQLiteStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	ctx = context.WithValue(ctx, sqliteTxKey{}, tx)
	if err := fn(ctx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// dbtx is the common subset of *sql.DB and *sql.Tx the store uses.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) q(ctx context.Context) dbtx {
	if tx, ok := ctx.Value(sqliteTxKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

type sqliteItems struct{ s *SQLiteStore }

func (r sqliteItems) Create(ctx context.Context, it *domain.Item) error {
	it.ID = uuid.NewString()
	_, err := r.s.q(ctx).ExecContext(ctx,
		`INSERT INTO items (id, name, price, unit, image_url, available) VALUES (?, ?, ?, ?, ?, ?)`,
		it.ID, it.Name, it.Price, it.Unit, it.ImageURL, boolToInt(it.Available))
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r sqliteItems) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	row := r.s.q(ctx).QueryRowContext(ctx,
		`SELECT id, name, price, unit, image_url, available FROM items WHERE id = ?`, id)
	return scanItem(row)
}

func (r sqliteItems) Update(ctx context.Context, it *domain.Item) error {
	res, err := r.s.q(ctx).ExecContext(ctx,
		`UPDATE items SET name = ?, price = ?, unit = ?, image_url = ?, available = ? WHERE id = ?`,
		it.Name, it.Price, it.Unit, it.ImageURL, boolToInt(it.Available), it.ID)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return requireAffected(res)
}

func (r sqliteItems) Delete(ctx context.Context, id string) error {
	res, err := r.s.q(ctx).ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return requireAffected(res)
}

func (r sqliteItems) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx,
		`SELECT id, name, price, unit, image_url, available FROM items ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Item, 0)
	for rows.Next() {
		var it domain.Item
		var avail int64
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Unit, &it.ImageURL, &avail); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Available = avail != 0
		out = append(out, it)
	}
	return out, rows.Err()
}

type sqliteAccounts struct{ s *SQLiteStore }

func (r sqliteAccounts) Create(ctx context.Context, a *domain.Account) error {
	res, err := r.s.q(ctx).ExecContext(ctx,
		`INSERT INTO accounts (username, password, is_admin) VALUES (?, ?, ?)
		 ON CONFLICT(username) DO NOTHING`,
		a.Username, a.Password, boolToInt(a.IsAdmin))
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	if n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (r sqliteAccounts) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var a domain.Account
	var admin int64
	err := r.s.q(ctx).QueryRowContext(ctx,
		`SELECT username, password, is_admin FROM accounts WHERE username = ?`, username).
		Scan(&a.Username, &a.Password, &admin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	a.IsAdmin = admin != 0
	return &a, nil
}

type sqliteOrders struct{ s *SQLiteStore }

func (r sqliteOrders) Create(ctx context.Context, o *domain.Order) error {
	o.ID = uuid.NewString()
	o.CreatedAt = time.Now().UTC()
	q := r.s.q(ctx)
	_, err := q.ExecContext(ctx,
		`INSERT INTO orders (id, username, total_amount, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		o.ID, o.User, o.TotalAmount, string(o.Status), o.CreatedAt.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for _, l := range o.Items {
		_, err := q.ExecContext(ctx,
			`INSERT INTO order_lines (order_id, item_id, quantity, price) VALUES (?, ?, ?, ?)`,
			o.ID, l.ItemID, l.Quantity, l.Price)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return nil
}

func (r sqliteOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.s.q(ctx).QueryRowContext(ctx,
		`SELECT id, username, total_amount, status, created_at FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r sqliteOrders) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	res, err := r.s.q(ctx).ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r sqliteOrders) ListByUser(ctx context.Context, username string) ([]domain.Order, error) {
	return r.list(ctx,
		`SELECT id, username, total_amount, status, created_at FROM orders WHERE username = ? ORDER BY rowid`,
		username)
}

func (r sqliteOrders) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx,
		`SELECT id, username, total_amount, status, created_at FROM orders ORDER BY rowid`)
}

func (r sqliteOrders) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		var status, createdAt string
		if err := rows.Scan(&o.ID, &o.User, &o.TotalAmount, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = domain.OrderStatus(status)
		o.CreatedAt, err = time.Parse(timeFormat, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse order created_at: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadLines(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r sqliteOrders) loadLines(ctx context.Context, o *domain.Order) error {
	rows, err := r.s.q(ctx).QueryContext(ctx,
		`SELECT item_id, quantity, price FROM order_lines WHERE order_id = ? ORDER BY rowid`, o.ID)
	if err != nil {
		return fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	o.Items = make([]domain.OrderLine, 0)
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ItemID, &l.Quantity, &l.Price); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		o.Items = append(o.Items, l)
	}
	return rows.Err()
}

func scanItem(row *sql.Row) (*domain.Item, error) {
	var it domain.Item
	var avail int64
	err := row.Scan(&it.ID, &it.Name, &it.Price, &it.Unit, &it.ImageURL, &avail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan item: %w", err)
	}
	it.Available = avail != 0
	return &it, nil
}

func scanOrder(row *sql.Row) (*domain.Order, error) {
	var o domain.Order
	var status, createdAt string
	err := row.Scan(&o.ID, &o.User, &o.TotalAmount, &status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	o.CreatedAt, err = time.Parse(timeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse order created_at: %w", err)
	}
	return &o, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
