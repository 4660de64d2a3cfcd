// Package hook provides pre/post dispatch hooks for the dispatcher.
//
// Hooks intercept the execution of primitives for logging, tracing,
// timing and policy checks. They are ordered by priority:
//
//   - Pre-hooks: higher priority runs first. Any pre-hook may cancel the
//     execution by returning false.
//   - Post-hooks: lower priority runs first, higher runs last, so the
//     highest priority hook sees the final error.
//
// A hook registered with RegisterPreFor or RegisterPostFor, or one that
// implements Scoped, only runs for the primitives it names. NewDenyHook
// scopes itself to the primitives it blocks.
//
// # Built-in Hooks
//
//   - AuditHook: logs every executed primitive
//   - TraceHook: prints {\name} while \tracingcommands is positive
//   - TimingHook: reports execution time per primitive
//   - FilterHook: blocks primitives; NewDenyHook blocks them by name
//
// # Hook Manager
//
//	manager := hook.NewManager()
//	manager.Register(hook.NewAuditHook(logger))
//	manager.RegisterPre(hook.NewDenyHook("message"))
//
//	if manager.RunPreDispatch(ev) {
//	    ev.Err = p.Execute(ev.Flags, ev.Context, src, out)
//	    manager.RunPostDispatch(ev)
//	}
package hook
