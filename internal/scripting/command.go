package scripting

import (
	"github.com/cobalthex/dyingandmore/internal/data"
	"github.com/cobalthex/dyingandmore/internal/world"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Command runs commands[fn](ctx) when a trigger fires. With a Target it
// runs against that entity instead of the one entering.
type Command struct {
	engine *Engine
	fn     string
	target string
}

func (c *Command) Target() string { return c.target }

func (c *Command) Run(m *world.Map, e *world.Entity) {
	tbl, ok := c.engine.vm.GetGlobal("commands").(*lua.LTable)
	if !ok {
		return
	}
	fn := tbl.RawGetString(c.fn)
	if fn == lua.LNil {
		c.engine.log.Error("lua command not found", zap.String("command", c.fn))
		return
	}
	rt := c.engine.call(fn, "commands."+c.fn, c.engine.entityTable(m, e))
	c.engine.apply(m, e, parseActions(rt))
}

// CommandResolver resolves trigger commands of kind "script"; Arg names the
// function in the `commands` table.
func (e *Engine) CommandResolver() world.CommandResolver {
	return func(def data.CommandDef) (world.Command, bool) {
		if def.Kind != "script" || def.Arg == "" {
			return nil, false
		}
		return &Command{engine: e, fn: def.Arg, target: def.Target}, true
	}
}
