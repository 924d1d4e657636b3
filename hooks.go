package lazyset

// Test hooks (kept separate so instrumentation doesn't clutter logic).
// They must not be set outside tests.
var (
	// afterFindHook runs in insert and delete between the traversal and validation.
	afterFindHook func(pred, curr any)

	// beforeUnlinkHook runs in delete after the logical delete, while both locks are held.
	beforeUnlinkHook func(node any)
)
