// Package criteria models a pending relational query.
//
// A Criteria collects filters, joins, projected columns, grouping, ordering,
// limits, locks and update values against an optional schema map. Nothing
// here produces complete statements: the querysql package walks a Criteria
// and assembles SELECT, INSERT, UPDATE and DELETE text through a dialect.
//
// Column references are plain strings ("book.title", "b.title", "title",
// "public.book.title"). They are resolved once, when a filter or join is
// added, into ResolvedColumn values. References that cannot be resolved are
// kept as literal SQL and reported through Criteria.Warnings.
//
// Filters form a tree of Comparison, Raw, Combined and Exists nodes. Each
// node renders itself into a RenderContext, which owns the shared bind
// parameter list so placeholders (:p1, :p2, ...) always line up with the
// returned parameters.
package criteria
