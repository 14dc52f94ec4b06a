// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. ToDomain validates each row and reports a shared.MalformedRecordError
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: BaseModel shared by aggregates
// - ideation.go: ideas, comments, evaluations, votes
// - player.go: player profiles and per-player settings
// - notification.go: mention notifications
// - identity.go: accounts, one-time tokens, auth audit log
// - json.go: JSON column support for id lists
package models
