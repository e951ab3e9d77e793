package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{
		db: tx,
	}
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (username) VALUES (?)
RETURNING id
`

func (q *Queries) CreateUser(ctx context.Context, username string) (int64, error) {
	row := q.db.QueryRowContext(ctx, createUser, username)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const createCookies = `-- name: CreateCookies :exec
INSERT INTO cookies (user_id, cfid, cftoken, sessionid, sessiontoken)
VALUES (?, ?, ?, ?, ?)
`

func (q *Queries) CreateCookies(ctx context.Context, arg Cookie) error {
	_, err := q.db.ExecContext(ctx, createCookies,
		arg.UserID,
		arg.Cfid,
		arg.Cftoken,
		arg.Sessionid,
		arg.Sessiontoken,
	)
	return err
}

const getCookies = `-- name: GetCookies :one
SELECT user_id, cfid, cftoken, sessionid, sessiontoken FROM cookies
WHERE user_id = ?
`

func (q *Queries) GetCookies(ctx context.Context, userID int64) (Cookie, error) {
	row := q.db.QueryRowContext(ctx, getCookies, userID)
	var i Cookie
	err := row.Scan(
		&i.UserID,
		&i.Cfid,
		&i.Cftoken,
		&i.Sessionid,
		&i.Sessiontoken,
	)
	return i, err
}

const getUsername = `-- name: GetUsername :one
SELECT username FROM users
WHERE id = ?
`

func (q *Queries) GetUsername(ctx context.Context, id int64) (string, error) {
	row := q.db.QueryRowContext(ctx, getUsername, id)
	var username string
	err := row.Scan(&username)
	return username, err
}

const listUserIDs = `-- name: ListUserIDs :many
SELECT id FROM users
ORDER BY id
`

func (q *Queries) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listUserIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listUsers = `-- name: ListUsers :many
SELECT id, username FROM users
ORDER BY id
`

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []User
	for rows.Next() {
		var i User
		if err := rows.Scan(&i.ID, &i.Username); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
