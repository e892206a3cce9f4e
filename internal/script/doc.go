// Package script runs event handlers written in Lua.
//
// A handler script defines a global function handle(event). The event arrives
// as a table of its exported fields plus _type, the event's type name.
// Returning false stops propagation; raising an error fails the handler.
//
//	function handle(event)
//	    if event.Total > 1000 then
//	        log("large order " .. event.ID, "warn")
//	    end
//	end
//
// Scripts are referenced from the events configuration as "lua:<path>",
// relative to the script directory. The runtime is sandboxed: only the base,
// table, string and math libraries are available and nothing can be loaded
// from disk.
package script
