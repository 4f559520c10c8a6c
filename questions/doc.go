// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package questions stores questions and their answer options.

A question is either yesNo, counted by the yes_count and no_count columns,
or multipleChoice with 2 to 6 options, each carrying its own vote_count.
Creating a multipleChoice question is a premium feature: the Gatekeeper is
consulted on every call, immediately before the insert.

# Status

Questions start active. Authors may close their own questions; only users
with the owner role may remove or reopen one. Status changes never touch
counters, and the ledger refuses votes on anything that is not active.

# Listing

List returns active questions only. Sort "top" orders by total votes
(yes + no + option votes) and "new" by creation time. Limits are clamped
to 1..100 with a default of 20.

# Sponsorship

Sponsor checks the entitlement and the question's status but does not
persist anything. The response carries persisted=false so clients can
tell.
*/
package questions
