// Package dispatcher runs the interpreter loop: it reads tokens, resolves
// them to primitives through the context's code store and executes them.
//
// # Dispatch
//
// For each token read from the source:
//
//  1. A control sequence or active character is resolved with
//     state.Context.Code. Undefined tokens fail with TTP.UndefinedToken.
//  2. Pre-dispatch hooks run and may cancel the execution.
//  3. The primitive executes with the pending prefix flags (with optional
//     panic recovery).
//  4. Flags left raised by a primitive that is not itself a prefix fail
//     with TTP.InvalidPrefix.
//  5. Post-dispatch hooks run and metrics are recorded (if enabled).
//
// The begin-group and end-group characters open and close simple groups
// directly. Every other character goes to the Typesetter.
//
// # Primitives
//
// Primitives are registered by name and installed into a context:
//
//	d := dispatcher.New(dispatcher.DefaultConfig())
//	primitives.Register(d.Registry())
//	if err := d.Registry().Install(ctx); err != nil {
//	    return err
//	}
//	err := d.Run(ctx, token.NewScanner("input", text))
//
// # Error Recovery
//
// The loop is the recovery boundary. A recoverable texerr error is passed
// to the ErrorHandler, which decides whether the run continues. Panic-kind
// errors and errors outside the taxonomy always end the run, as does
// reaching Config.MaxErrors.
package dispatcher
