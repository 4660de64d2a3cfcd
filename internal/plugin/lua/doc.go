// Package lua lets scripts contribute primitives.
//
// A loader declaration with class "lua" names a script that runs in a
// sandboxed gopher-lua state. The state opens only the base, table, string
// and math libraries, and require resolves nothing but those and the
// texcore module:
//
//	[Loaders.units]
//	class = "lua"
//	script = "units.lua"
//	timeout_ms = 500
//
// The script declares primitives while it loads:
//
//	local tex = require("texcore")
//
//	tex.primitive("double", function()
//	    local n = tex.scan_int()
//	    tex.set_count("result", 2 * n, tex.global())
//	end)
//
// A primitive function may read and write registers, scan its arguments
// from the input, open and close semi-simple groups and print. A string or
// number it returns is tokenized and read next; a list is read item by
// item. Returning a table with named keys is an error. Interpreter errors raised through the
// texcore functions reach the dispatcher unchanged; any other script
// failure is reported as a Lua.ScriptError.
package lua
