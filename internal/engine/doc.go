// Package engine implements the fsproj projection engine.
//
// A Projection owns all run state: the node arena, the per-year cell roots,
// the in-progress guard and the value table. Callers import actuals once,
// configure rules and balance changes, then call Compute for a horizon.
//
// ARCHITECTURE:
//
// Per forecast year, Compute runs a strictly ordered pipeline:
//  1. Build a root node for every rule account (ensureCell, memoized)
//  2. Evaluate the graph and write values to the table
//  3. Roll forward balance-sheet accounts without a rule
//  4. Apply Balance & Change instructions, capturing CFI and CFF
//  5. Derive CFO and roll the cash account forward
//  6. Settle: every table value for the year becomes a leaf root, so later
//     years read post-adjustment balances
//
// Validation runs before step 1 and never mutates state. A failure inside a
// year discards that year's roots and table entries; earlier years stay.
//
// Projection is single-owner state. Do not call SetRules, SetBalanceChanges
// or Compute concurrently on one instance; reads are safe once Compute
// returns.
package engine
