// Package classify assigns the submission-time risk annotation: a risk
// level plus the set of flagged terms that triggered it.
//
// Classification is keyword-based and intentionally conservative: any
// crisis-tier phrase yields high risk immediately, while concern-tier
// phrases escalate by count. Text is NFKC-normalized and case-folded
// before matching so Unicode variants of a phrase still match.
//
// The annotation is attached once when an item is stored and is read-only
// everywhere else in the system.
package classify
