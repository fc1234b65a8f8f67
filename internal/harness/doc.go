// Package harness builds Criteria from YAML query documents and checks
// rendered SQL against scenario expectations and golden snapshots.
//
// # Query Documents
//
//	table: book
//	select: [book.title, author.last_name]
//	joins:
//	  - {left: book.author_id, right: author.id, type: left}
//	filters:
//	  - {column: book.price, op: ">", value: 10}
//	  - {column: book.title, op: LIKE, value: "%Go%", or: true}
//	  - {raw: "book.isbn IS NOT NULL"}
//	order_by: ["book.price DESC"]
//	limit: 5
//
// Filters with or: true fold into the previous filter as an OR group.
// Named conditions are declared under conditions and merged with
// combine; a combine entry without a name adds the result as a filter.
//
// # Scenarios
//
//	name: cheap_books
//	description: "Books under ten, cheapest first"
//	schema: ../schema/bookstore.yaml
//	dialect: pgsql
//	statement: select
//	query: { ... }
//	expect:
//	  sql: "SELECT ... WHERE book.price<:p1"
//	  params: [10]
//
// expect.sql is the render before placeholder rewriting, so one
// scenario format covers every dialect. Use expect.error instead of
// expect.sql for renders that must fail.
//
// Golden snapshots store the SQL, params and statement fingerprint as
// canonical JSON under testdata/golden.
package harness
