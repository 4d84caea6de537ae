package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type demoUser struct {
	username string
	email    string
	role     string
}

type demoDog struct {
	owner string
	name  string
	size  string
}

type demoWalk struct {
	dog      string
	at       time.Time
	minutes  int
	location string
	status   string
	walker   string // accepted walker, if any
	rating   int    // 0 when unrated
	comments string
}

var demoUsers = []demoUser{
	{"alice123", "alice@example.com", "owner"},
	{"bobwalker", "bob@example.com", "walker"},
	{"carol123", "carol@example.com", "owner"},
	{"davewalker", "dave@example.com", "walker"},
	{"emily123", "emily@example.com", "owner"},
}

var demoDogs = []demoDog{
	{"alice123", "Max", "medium"},
	{"carol123", "Bella", "small"},
	{"emily123", "Rocky", "large"},
	{"alice123", "Luna", "small"},
	{"carol123", "Daisy", "medium"},
}

var demoWalks = []demoWalk{
	{dog: "Max", at: at(2025, 6, 10, 8, 0), minutes: 30, location: "Parklands", status: "open"},
	{dog: "Bella", at: at(2025, 6, 10, 9, 30), minutes: 45, location: "Beachside Ave", status: "accepted", walker: "bobwalker"},
	{dog: "Rocky", at: at(2025, 6, 11, 7, 0), minutes: 60, location: "Botanic Gardens", status: "open"},
	{dog: "Luna", at: at(2025, 6, 12, 16, 0), minutes: 30, location: "Rundle Mall", status: "completed",
		walker: "bobwalker", rating: 5, comments: "Great walk!"},
	{dog: "Daisy", at: at(2025, 6, 13, 10, 15), minutes: 40, location: "Linear Park", status: "completed",
		walker: "bobwalker", rating: 4, comments: "On time"},
}

// Pending applications on open requests.
var demoApplications = []struct{ dog, walker string }{
	{"Max", "davewalker"},
	{"Rocky", "bobwalker"},
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

type seeder struct {
	db   execer
	hash string
	log  *slog.Logger

	users    map[string]int64
	dogs     map[string]int64
	requests map[string]int64 // by dog name
}

func (s *seeder) seed(ctx context.Context) error {
	s.users = make(map[string]int64, len(demoUsers))
	s.dogs = make(map[string]int64, len(demoDogs))
	s.requests = make(map[string]int64, len(demoWalks))

	for _, u := range demoUsers {
		if err := s.user(ctx, u); err != nil {
			return err
		}
	}
	for _, d := range demoDogs {
		if err := s.dog(ctx, d); err != nil {
			return err
		}
	}
	for _, w := range demoWalks {
		if err := s.walk(ctx, w); err != nil {
			return err
		}
	}
	for _, a := range demoApplications {
		if err := s.application(ctx, s.requests[a.dog], s.users[a.walker], "pending"); err != nil {
			return err
		}
	}

	s.log.Info("seeded",
		slog.Int("users", len(s.users)),
		slog.Int("dogs", len(s.dogs)),
		slog.Int("walk_requests", len(s.requests)),
	)
	return nil
}

func (s *seeder) user(ctx context.Context, u demoUser) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO NOTHING`,
		u.username, u.email, s.hash, u.role,
	)
	if err != nil {
		return fmt.Errorf("seed user %s: %w", u.username, err)
	}

	var id int64
	if err := s.db.QueryRow(ctx, `SELECT user_id FROM users WHERE username = $1`, u.username).Scan(&id); err != nil {
		return fmt.Errorf("look up user %s: %w", u.username, err)
	}
	s.users[u.username] = id
	return nil
}

func (s *seeder) dog(ctx context.Context, d demoDog) error {
	ownerID := s.users[d.owner]
	var id int64
	err := s.db.QueryRow(ctx, `
		WITH ins AS (
			INSERT INTO dogs (owner_id, name, size)
			SELECT $1, $2, $3
			WHERE NOT EXISTS (SELECT 1 FROM dogs WHERE owner_id = $1 AND name = $2)
			RETURNING dog_id
		)
		SELECT dog_id FROM ins
		UNION ALL
		SELECT dog_id FROM dogs WHERE owner_id = $1 AND name = $2
		LIMIT 1`,
		ownerID, d.name, d.size,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("seed dog %s: %w", d.name, err)
	}
	s.dogs[d.name] = id
	return nil
}

func (s *seeder) walk(ctx context.Context, w demoWalk) error {
	dogID := s.dogs[w.dog]
	var id int64
	err := s.db.QueryRow(ctx, `
		WITH ins AS (
			INSERT INTO walk_requests (dog_id, requested_time, duration_minutes, location, status)
			SELECT $1, $2, $3, $4, $5
			WHERE NOT EXISTS (SELECT 1 FROM walk_requests WHERE dog_id = $1 AND requested_time = $2)
			RETURNING request_id
		)
		SELECT request_id FROM ins
		UNION ALL
		SELECT request_id FROM walk_requests WHERE dog_id = $1 AND requested_time = $2
		LIMIT 1`,
		dogID, w.at, w.minutes, w.location, w.status,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("seed walk request for %s: %w", w.dog, err)
	}
	s.requests[w.dog] = id

	if w.walker == "" {
		return nil
	}
	walkerID := s.users[w.walker]
	if err := s.application(ctx, id, walkerID, "accepted"); err != nil {
		return err
	}
	if w.rating == 0 {
		return nil
	}

	ownerID := s.users[ownerOf(w.dog)]
	_, err = s.db.Exec(ctx, `
		INSERT INTO walk_ratings (request_id, walker_id, owner_id, rating, comments)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		ON CONFLICT (request_id) DO NOTHING`,
		id, walkerID, ownerID, w.rating, w.comments,
	)
	if err != nil {
		return fmt.Errorf("seed rating for %s: %w", w.dog, err)
	}
	return nil
}

func (s *seeder) application(ctx context.Context, requestID, walkerID int64, status string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO walk_applications (request_id, walker_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (request_id, walker_id) DO NOTHING`,
		requestID, walkerID, status,
	)
	if err != nil {
		return fmt.Errorf("seed application for request %d: %w", requestID, err)
	}
	return nil
}

func ownerOf(dog string) string {
	for _, d := range demoDogs {
		if d.name == dog {
			return d.owner
		}
	}
	return ""
}
