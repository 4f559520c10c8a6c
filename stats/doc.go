// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package stats projects platform and per-user aggregates from the vote
// counters. Reads are plain statements outside any transaction, so they
// never hold locks that writers wait on.
//
// PlatformStats degrades to all zeros when the store fails; UserStats
// returns the error. CountriesEstimate is a heuristic (two per user,
// capped at 150) and is labelled as such in the API docs.
package stats
