package models

// This file serves as the central export point for all database models
// Import this package to access all model types

// All models are automatically exported from their respective files:
// - User, RevokedToken from user.go
// - Room from room.go
// - InterviewNote from note.go

// Database schema overview:
// 1. users - Managed by cookie-based authentication
// 2. revoked_tokens - Denylist of refresh token IDs, checked on refresh and logout
// 3. rooms - Interview rooms, single owner, shareable through a public room_id
// 4. interview_notes - At most one note per (room_id, interviewer) pair
