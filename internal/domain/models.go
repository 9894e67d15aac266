package domain

import "time"

// GameMode distinguishes single-player sessions from duel rooms.
type GameMode string

const (
	ModeSingle GameMode = "SINGLE"
	ModeDuel   GameMode = "DUEL"
)

// PointsPerCorrect is the fixed award for a correctly answered question.
const PointsPerCorrect = 10

// User is a registered player identified by a unique nickname.
type User struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	HighScore int       `json:"highScore"`
	CreatedAt time.Time `json:"createdAt"`
}

// Question is a multiple-choice question tagged with a category.
// Exactly one of Options equals Answer.
type Question struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
	IsActive bool     `json:"isActive"`
}

// Score is an append-only record of one completed game session.
type Score struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Value     int       `json:"value"`
	GameMode  GameMode  `json:"gameMode"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmittedQuestion is a player-proposed question awaiting moderation.
type SubmittedQuestion struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Category  string    `json:"category"`
	Text      string    `json:"text"`
	Options   []string  `json:"options"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}

// RoomStatus tracks the lifecycle of a duel room.
type RoomStatus string

const (
	RoomWaiting  RoomStatus = "WAITING"
	RoomPlaying  RoomStatus = "PLAYING"
	RoomFinished RoomStatus = "FINISHED"
)

// GameRoom is the duel-mode room stub: a joinable code, no gameplay wiring yet.
type GameRoom struct {
	ID           string     `json:"id"`
	Code         string     `json:"code"`
	Status       RoomStatus `json:"status"`
	MaxPlayers   int        `json:"maxPlayers"`
	CurrentRound int        `json:"currentRound"`
	MaxRounds    int        `json:"maxRounds"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// LeaderboardEntry is one row of the global (all-time) leaderboard.
type LeaderboardEntry struct {
	UserID    string `json:"id"`
	Nickname  string `json:"nickname"`
	HighScore int    `json:"highScore"`
	Rank      int    `json:"rank"`
}

// WeeklyEntry is one row of the trailing-7-day leaderboard. Score is the
// user's best value in the window and ScoredAt when it was achieved.
type WeeklyEntry struct {
	UserID   string    `json:"id"`
	Nickname string    `json:"nickname"`
	Score    int       `json:"score"`
	ScoredAt time.Time `json:"date"`
	Rank     int       `json:"rank"`
}

// UserRank summarizes one user's standing. WeeklyRank is nil when the user
// has no score inside the 7-day window.
type UserRank struct {
	Nickname    string `json:"nickname"`
	GlobalRank  int    `json:"globalRank"`
	GlobalScore int    `json:"globalScore"`
	WeeklyRank  *int   `json:"weeklyRank"`
	WeeklyScore int    `json:"weeklyScore"`
}

// NeighborEntry is one row of the rank-relative "users around me" view.
// Rank is the 1-based position within the returned slice only.
type NeighborEntry struct {
	UserID    string `json:"id"`
	Nickname  string `json:"nickname"`
	HighScore int    `json:"highScore"`
	Rank      int    `json:"rank"`
	IsCurrent bool   `json:"isCurrent"`
}

// PlayerStats aggregates a user's score history.
type PlayerStats struct {
	TotalGames   int `json:"totalGames"`
	AverageScore int `json:"averageScore"`
	BestScore    int `json:"bestScore"`
	RecentGames  int `json:"recentGames"`
}
