package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/rewardly/taskbot/internal/domain/errors"
	"github.com/rewardly/taskbot/internal/domain/model"
	"github.com/rewardly/taskbot/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage layer relies on.
type pgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type taskRepository struct {
	storage *Storage
}

type assignmentRepository struct {
	storage *Storage
}

type withdrawalRepository struct {
	storage *Storage
}

type announcementRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Tasks() repository.TaskRepository {
	return &taskRepository{storage: s}
}

func (s *Storage) Assignments() repository.AssignmentRepository {
	return &assignmentRepository{storage: s}
}

func (s *Storage) Withdrawals() repository.WithdrawalRepository {
	return &withdrawalRepository{storage: s}
}

func (s *Storage) Announcements() repository.AnnouncementRepository {
	return &announcementRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGINT PRIMARY KEY,
            username TEXT NOT NULL DEFAULT '',
            joined_channel BOOLEAN NOT NULL DEFAULT FALSE,
            balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
            referrer_id BIGINT,
            payout_id TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS tasks (
            id BIGSERIAL PRIMARY KEY,
            title TEXT NOT NULL,
            description TEXT NOT NULL,
            reward BIGINT NOT NULL,
            question TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS assignments (
            user_id BIGINT NOT NULL REFERENCES users(id),
            task_id BIGINT NOT NULL REFERENCES tasks(id),
            response TEXT NOT NULL,
            status TEXT NOT NULL,
            submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (user_id, task_id)
        )`,
		`CREATE TABLE IF NOT EXISTS withdrawals (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            amount BIGINT NOT NULL,
            payout_id TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS announcements (
            id BIGSERIAL PRIMARY KEY,
            message TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_users_referrer ON users(referrer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_status ON assignments(status)`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawals_user ON withdrawals(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawals_status ON withdrawals(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const userColumns = `id, username, joined_channel, balance, referrer_id, payout_id, created_at`

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(&u.ID, &u.Username, &u.JoinedChannel, &u.Balance, &u.ReferrerID, &u.PayoutID, &u.CreatedAt)
}

// --- UserRepository implementation ---

func (r *userRepository) Upsert(ctx context.Context, id int64, username string, referrerID *int64) (*model.User, bool, error) {
	const query = `INSERT INTO users (id, username, referrer_id) VALUES ($1, $2, $3)
                   ON CONFLICT (id) DO NOTHING
                   RETURNING ` + userColumns
	var u model.User
	err := scanUser(r.storage.pool.QueryRow(ctx, query, id, username, referrerID), &u)
	if err == nil {
		return &u, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	// Existing user: refresh the handle, keep the referrer edge untouched.
	const update = `UPDATE users SET username=$2 WHERE id=$1`
	if _, err := r.storage.pool.Exec(ctx, update, id, username); err != nil {
		return nil, false, err
	}
	existing, err := r.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	var u model.User
	if err := scanUser(r.storage.pool.QueryRow(ctx, query, id), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) Credit(ctx context.Context, id int64, amount int64) error {
	if amount < 0 {
		return domainErrors.ErrInvalidAmount
	}
	const query = `UPDATE users SET balance = balance + $2 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) Debit(ctx context.Context, id int64, amount int64) error {
	// The balance check and decrement happen in one statement: concurrent
	// debits can never both pass the check.
	const query = `UPDATE users SET balance = balance - $2 WHERE id=$1 AND balance >= $2`
	tag, err := r.storage.pool.Exec(ctx, query, id, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return domainErrors.ErrInsufficientBalance
}

func (r *userRepository) SetBalance(ctx context.Context, id int64, balance int64) error {
	const query = `UPDATE users SET balance=$2 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, balance)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) SetPayoutID(ctx context.Context, id int64, payoutID string) error {
	const query = `UPDATE users SET payout_id=$2 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, payoutID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *userRepository) MarkJoined(ctx context.Context, id int64) (bool, error) {
	// Guarded on the flag transition so the join bonus fires at most once.
	const query = `UPDATE users SET joined_channel=TRUE WHERE id=$1 AND joined_channel=FALSE`
	tag, err := r.storage.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}
	if _, err := r.Get(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (r *userRepository) ListReferrals(ctx context.Context, referrerID int64) ([]model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE referrer_id=$1 ORDER BY created_at`
	rows, err := r.storage.pool.Query(ctx, query, referrerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- TaskRepository implementation ---

func (r *taskRepository) Create(ctx context.Context, title, description string, reward int64, question string) (*model.Task, error) {
	const query = `INSERT INTO tasks (title, description, reward, question) VALUES ($1, $2, $3, $4) RETURNING id`
	task := model.Task{Title: title, Description: description, Reward: reward, Question: question}
	if err := r.storage.pool.QueryRow(ctx, query, title, description, reward, question).Scan(&task.ID); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM assignments WHERE task_id=$1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		return nil
	})
}

func (r *taskRepository) Get(ctx context.Context, id int64) (*model.Task, error) {
	const query = `SELECT id, title, description, reward, question FROM tasks WHERE id=$1`
	var t model.Task
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Title, &t.Description, &t.Reward, &t.Question)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *taskRepository) List(ctx context.Context) ([]model.Task, error) {
	const query = `SELECT id, title, description, reward, question FROM tasks ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Reward, &t.Question); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- AssignmentRepository implementation ---

func (r *assignmentRepository) Submit(ctx context.Context, userID, taskID int64, response string) error {
	// Insert or overwrite the response while still pending; a completed
	// assignment makes the conditional upsert affect no rows.
	const query = `INSERT INTO assignments (user_id, task_id, response, status)
                   VALUES ($1, $2, $3, $4)
                   ON CONFLICT (user_id, task_id) DO UPDATE
                   SET response = EXCLUDED.response, submitted_at = NOW()
                   WHERE assignments.status = $4`
	tag, err := r.storage.pool.Exec(ctx, query, userID, taskID, response, model.AssignmentStatusPending)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domainErrors.ErrNotFound
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotPending
	}
	return nil
}

func (r *assignmentRepository) Approve(ctx context.Context, userID, taskID int64, referralPercent int64) (*repository.ApprovalResult, error) {
	var result repository.ApprovalResult
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const transition = `UPDATE assignments SET status=$3 WHERE user_id=$1 AND task_id=$2 AND status=$4`
		tag, err := tx.Exec(ctx, transition, userID, taskID, model.AssignmentStatusCompleted, model.AssignmentStatusPending)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var status model.AssignmentStatus
			err := tx.QueryRow(ctx, `SELECT status FROM assignments WHERE user_id=$1 AND task_id=$2`, userID, taskID).Scan(&status)
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			if err != nil {
				return err
			}
			return domainErrors.ErrNotPending
		}

		if err := tx.QueryRow(ctx, `SELECT reward FROM tasks WHERE id=$1`, taskID).Scan(&result.Reward); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE users SET balance = balance + $2 WHERE id=$1`, userID, result.Reward); err != nil {
			return err
		}

		if err := tx.QueryRow(ctx, `SELECT referrer_id FROM users WHERE id=$1`, userID).Scan(&result.ReferrerID); err != nil {
			return err
		}
		if result.ReferrerID != nil {
			result.ReferralBonus = result.Reward * referralPercent / 100
			if result.ReferralBonus > 0 {
				const bonus = `UPDATE users SET balance = balance + $2 WHERE id=$1`
				if _, err := tx.Exec(ctx, bonus, *result.ReferrerID, result.ReferralBonus); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *assignmentRepository) Decline(ctx context.Context, userID, taskID int64) error {
	const query = `DELETE FROM assignments WHERE user_id=$1 AND task_id=$2 AND status=$3`
	tag, err := r.storage.pool.Exec(ctx, query, userID, taskID, model.AssignmentStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var status model.AssignmentStatus
	err = r.storage.pool.QueryRow(ctx, `SELECT status FROM assignments WHERE user_id=$1 AND task_id=$2`, userID, taskID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrNotFound
	}
	if err != nil {
		return err
	}
	return domainErrors.ErrNotPending
}

func (r *assignmentRepository) Get(ctx context.Context, userID, taskID int64) (*model.Assignment, error) {
	const query = `SELECT user_id, task_id, response, status, submitted_at FROM assignments WHERE user_id=$1 AND task_id=$2`
	var a model.Assignment
	err := r.storage.pool.QueryRow(ctx, query, userID, taskID).Scan(&a.UserID, &a.TaskID, &a.Response, &a.Status, &a.SubmittedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepository) ListByUser(ctx context.Context, userID int64, status model.AssignmentStatus) ([]model.Task, error) {
	const query = `SELECT t.id, t.title, t.description, t.reward, t.question
                   FROM tasks t
                   JOIN assignments a ON t.id = a.task_id
                   WHERE a.user_id=$1 AND a.status=$2
                   ORDER BY a.submitted_at`
	rows, err := r.storage.pool.Query(ctx, query, userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Reward, &t.Question); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *assignmentRepository) ListPending(ctx context.Context) ([]model.PendingSubmission, error) {
	const query = `SELECT a.user_id, u.username, t.id, t.title, t.reward, t.question, a.response
                   FROM assignments a
                   JOIN tasks t ON t.id = a.task_id
                   JOIN users u ON u.id = a.user_id
                   WHERE a.status=$1
                   ORDER BY a.submitted_at`
	rows, err := r.storage.pool.Query(ctx, query, model.AssignmentStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PendingSubmission
	for rows.Next() {
		var p model.PendingSubmission
		if err := rows.Scan(&p.UserID, &p.Username, &p.TaskID, &p.Title, &p.Reward, &p.Question, &p.Response); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- WithdrawalRepository implementation ---

func (r *withdrawalRepository) Create(ctx context.Context, userID, amount int64) (*model.Withdrawal, error) {
	var w model.Withdrawal
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var balance int64
		var payoutID *string
		err := tx.QueryRow(ctx, `SELECT balance, payout_id FROM users WHERE id=$1 FOR UPDATE`, userID).Scan(&balance, &payoutID)
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		if err != nil {
			return err
		}
		if payoutID == nil || *payoutID == "" {
			return domainErrors.ErrNoPayoutDestination
		}
		if balance < amount {
			return domainErrors.ErrInsufficientBalance
		}

		// Escrow: the debit and the pending record commit together or not at all.
		if _, err := tx.Exec(ctx, `UPDATE users SET balance = balance - $2 WHERE id=$1`, userID, amount); err != nil {
			return err
		}

		const insert = `INSERT INTO withdrawals (user_id, amount, payout_id) VALUES ($1, $2, $3)
                        RETURNING id, status, created_at`
		if err := tx.QueryRow(ctx, insert, userID, amount, *payoutID).Scan(&w.ID, &w.Status, &w.CreatedAt); err != nil {
			return err
		}
		w.UserID = userID
		w.Amount = amount
		w.PayoutID = *payoutID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *withdrawalRepository) Resolve(ctx context.Context, id int64, status model.WithdrawalStatus) (*model.Withdrawal, error) {
	return r.resolve(ctx, id, nil, status)
}

func (r *withdrawalRepository) Cancel(ctx context.Context, id, userID int64) (*model.Withdrawal, error) {
	return r.resolve(ctx, id, &userID, model.WithdrawalStatusDeclined)
}

func (r *withdrawalRepository) resolve(ctx context.Context, id int64, ownerID *int64, status model.WithdrawalStatus) (*model.Withdrawal, error) {
	var w model.Withdrawal
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const query = `SELECT id, user_id, amount, payout_id, status, created_at FROM withdrawals WHERE id=$1 FOR UPDATE`
		err := tx.QueryRow(ctx, query, id).Scan(&w.ID, &w.UserID, &w.Amount, &w.PayoutID, &w.Status, &w.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		if err != nil {
			return err
		}
		if ownerID != nil && w.UserID != *ownerID {
			return domainErrors.ErrNotFound
		}
		if w.Status != model.WithdrawalStatusPending {
			return domainErrors.ErrNotPending
		}

		if _, err := tx.Exec(ctx, `UPDATE withdrawals SET status=$2 WHERE id=$1`, id, status); err != nil {
			return err
		}

		// Declining releases the escrow back to the owner, in the same
		// transaction as the state flip.
		if status == model.WithdrawalStatusDeclined {
			if _, err := tx.Exec(ctx, `UPDATE users SET balance = balance + $2 WHERE id=$1`, w.UserID, w.Amount); err != nil {
				return err
			}
		}
		w.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *withdrawalRepository) Get(ctx context.Context, id int64) (*model.Withdrawal, error) {
	const query = `SELECT id, user_id, amount, payout_id, status, created_at FROM withdrawals WHERE id=$1`
	var w model.Withdrawal
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&w.ID, &w.UserID, &w.Amount, &w.PayoutID, &w.Status, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *withdrawalRepository) ListByUser(ctx context.Context, userID int64) ([]model.Withdrawal, error) {
	const query = `SELECT id, user_id, amount, payout_id, status, created_at
                   FROM withdrawals WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Withdrawal
	for rows.Next() {
		var w model.Withdrawal
		if err := rows.Scan(&w.ID, &w.UserID, &w.Amount, &w.PayoutID, &w.Status, &w.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *withdrawalRepository) ListPending(ctx context.Context) ([]model.PendingWithdrawal, error) {
	const query = `SELECT w.id, w.user_id, w.amount, w.payout_id, w.status, w.created_at, u.username
                   FROM withdrawals w
                   JOIN users u ON u.id = w.user_id
                   WHERE w.status=$1 ORDER BY w.created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, model.WithdrawalStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PendingWithdrawal
	for rows.Next() {
		var p model.PendingWithdrawal
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.PayoutID, &p.Status, &p.CreatedAt, &p.Username); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- AnnouncementRepository implementation ---

func (r *announcementRepository) Create(ctx context.Context, message string) (*model.Announcement, error) {
	const query = `INSERT INTO announcements (message) VALUES ($1) RETURNING id, created_at`
	a := model.Announcement{Message: message}
	if err := r.storage.pool.QueryRow(ctx, query, message).Scan(&a.ID, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *announcementRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM announcements WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *announcementRepository) List(ctx context.Context) ([]model.Announcement, error) {
	const query = `SELECT id, message, created_at FROM announcements ORDER BY created_at DESC, id DESC`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Announcement
	for rows.Next() {
		var a model.Announcement
		if err := rows.Scan(&a.ID, &a.Message, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
