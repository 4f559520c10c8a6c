// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateQuestionRequest: text, category, type, options
  - CastVoteRequest: answer ("yes"/"no") or option_id
  - SetStatusRequest: status
  - UpgradeRequest: plan
  - PaymentEvent: event_id, user_id, plan, succeeded

# Response Types

Types for JSON responses:

  - CreateQuestionResponse: question_id
  - CastVoteResponse: vote_id and the updated Tally
  - SponsorResponse, CanSponsorResponse, MeResponse
  - PaymentAckResponse: event_id, upgraded
  - ErrorResponse: error, message

# Domain Types

  - User: role (member, premium, owner), is_premium, premium_since, premium_plan
  - Question: status (active, closed, removed), type (yesNo, multipleChoice),
    yes_count, no_count
  - Option: one answer of a multipleChoice question, with vote_count
  - Vote: one immutable ledger row per (voter, question)

# Answers

Answer is the in-memory form of a vote's choice: Yes(), No() or
ForOption(id). CastVoteRequest.ToAnswer rejects requests that set both or
neither field. Answer.Matches checks it against a question type.

# Aggregates

Tally is a per-question view of the counters with percentages rounded to
one decimal. PlatformStats and UserStats are the projector's outputs.
AuditReport lists every answer whose counter differs from the ledger.
*/
package models
