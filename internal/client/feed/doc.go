// Package feed merges the live push stream with the paginated trip list.
//
// A Reconciler owns two segments: the live segment, newest first, fed by the
// push channel, and the paginated segment, appended one page at a time as
// the user scrolls. Render and View project the merged list through a role
// and city filter; Render additionally consumes the "new" flags of pushed
// trips so each is highlighted exactly once.
package feed
