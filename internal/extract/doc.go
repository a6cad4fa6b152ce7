// Package extract finds contact identifiers in page text.
//
// Two loose patterns are applied to the text as a case-sensitive substring
// scan: one for email addresses and one for phone-number-like digit groups.
// Nothing is validated beyond the pattern match, so the results can contain
// false positives such as long numeric identifiers.
package extract
