// Package script runs hit and equip reactions written in Lua.
//
// A reaction script may define two global functions:
//
//	function on_hit(e)   -- e.target, e.cause, e.weapon, e.damage, e.target_dead, ...
//	function on_equip(e) -- e.actor, e.item, e.equipped, ...
//
// Returning false, "reason" reports a failure to the sink. A script that does
// not define a function falls back to the default logging reaction. The
// globals log.info/warn/error, lookup(editor_id) and
// player_add_item(editor_id, count) are available while a reaction runs.
package script

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Shopify/go-lua"

	"github.com/GoCodeAlone/modhook"
)

const (
	hitFunction   = "on_hit"
	equipFunction = "on_equip"
)

var (
	ErrNoScriptPath = errors.New("script path is empty")
	ErrScriptFailed = errors.New("script reaction failed")
)

// Engine owns one Lua state. A Lua state is not safe for concurrent use, so
// every call into it holds mu; sinks may be called from several host
// threads at once.
type Engine struct {
	path   string
	logger modhook.Logger

	mu      sync.Mutex
	state   *lua.State
	current *modhook.ReactionContext
}

// NewEngine loads the script at path.
func NewEngine(path string, logger modhook.Logger) (*Engine, error) {
	if path == "" {
		return nil, ErrNoScriptPath
	}
	if logger == nil {
		logger = modhook.DiagnosticsFromLogger(nil).Logger()
	}
	e := &Engine{path: path, logger: logger}
	state, err := e.load()
	if err != nil {
		return nil, err
	}
	e.state = state
	return e, nil
}

// Path returns the script file.
func (e *Engine) Path() string { return e.path }

// Reload re-reads the script. On failure the previous script stays active.
func (e *Engine) Reload() error {
	state, err := e.load()
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.state = state
	e.mu.Unlock()
	e.logger.Info("Reaction script reloaded", "path", e.path)
	return nil
}

// Defines reports whether the active script defines the global function.
func (e *Engine) Defines(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Global(name)
	defined := e.state.IsFunction(-1)
	e.state.Pop(1)
	return defined
}

// HitReaction returns a reaction that calls on_hit.
func (e *Engine) HitReaction() modhook.HitReaction {
	return func(rc modhook.ReactionContext, hit modhook.ResolvedHit) error {
		called, err := e.call(rc, hitFunction, func(l *lua.State) { pushHit(l, hit) })
		if !called {
			return modhook.LogHit(rc, hit)
		}
		return err
	}
}

// EquipReaction returns a reaction that calls on_equip.
func (e *Engine) EquipReaction() modhook.EquipReaction {
	return func(rc modhook.ReactionContext, equip modhook.ResolvedEquip) error {
		called, err := e.call(rc, equipFunction, func(l *lua.State) { pushEquip(l, equip) })
		if !called {
			return modhook.LogEquip(rc, equip)
		}
		return err
	}
}

func (e *Engine) load() (*lua.State, error) {
	l := lua.NewState()
	lua.OpenLibraries(l)
	e.register(l)

	if err := lua.LoadFile(l, e.path, ""); err != nil {
		return nil, fmt.Errorf("load script %s: %w", e.path, err)
	}
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		return nil, fmt.Errorf("run script %s: %w", e.path, err)
	}
	return l, nil
}

// call invokes fn with one event table. It reports false when the script
// does not define fn.
func (e *Engine) call(rc modhook.ReactionContext, fn string, push func(*lua.State)) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l := e.state
	top := l.Top()
	defer l.SetTop(top)

	l.Global(fn)
	if !l.IsFunction(-1) {
		return false, nil
	}

	e.current = &rc
	defer func() { e.current = nil }()

	push(l)
	if err := l.ProtectedCall(1, 2, 0); err != nil {
		return true, fmt.Errorf("%w: %s: %w", ErrScriptFailed, fn, err)
	}
	if l.IsBoolean(-2) && !l.ToBoolean(-2) {
		reason, _ := l.ToString(-1)
		if reason == "" {
			reason = "returned false"
		}
		return true, fmt.Errorf("%w: %s: %s", ErrScriptFailed, fn, reason)
	}
	return true, nil
}

// reactionLogger is the logger of the reaction currently running, or the
// engine logger outside a reaction. Callers hold mu.
func (e *Engine) reactionLogger() modhook.Logger {
	if e.current != nil && e.current.Logger != nil {
		return e.current.Logger
	}
	return e.logger
}

func (e *Engine) register(l *lua.State) {
	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "info", Function: e.logFunc(func(lg modhook.Logger, msg string) { lg.Info(msg, "script", e.path) })},
		{Name: "warn", Function: e.logFunc(func(lg modhook.Logger, msg string) { lg.Warn(msg, "script", e.path) })},
		{Name: "error", Function: e.logFunc(func(lg modhook.Logger, msg string) { lg.Error(msg, "script", e.path) })},
	}, 0)
	l.SetGlobal("log")

	l.Register("lookup", e.lookup)
	l.Register("player_add_item", e.playerAddItem)
}

func (e *Engine) logFunc(emit func(modhook.Logger, string)) lua.Function {
	return func(l *lua.State) int {
		emit(e.reactionLogger(), lua.CheckString(l, 1))
		return 0
	}
}

// lookup(editor_id) returns the form's name, or nil.
func (e *Engine) lookup(l *lua.State) int {
	editorID := lua.CheckString(l, 1)
	if e.current == nil || e.current.Resolver == nil {
		l.PushNil()
		return 1
	}
	form, ok := e.current.Resolver.ByEditorID(editorID)
	if !ok {
		l.PushNil()
		return 1
	}
	l.PushString(form.Name())
	return 1
}

// player_add_item(editor_id, count) returns true when the item was added.
func (e *Engine) playerAddItem(l *lua.State) int {
	editorID := lua.CheckString(l, 1)
	count := lua.OptInteger(l, 2, 1)
	if e.current == nil || e.current.Resolver == nil || count < 1 {
		l.PushBoolean(false)
		return 1
	}
	res := e.current.Resolver
	form, ok := res.ByEditorID(editorID)
	if !ok {
		l.PushBoolean(false)
		return 1
	}
	item, ok := modhook.As[modhook.BoundObject](form)
	if !ok {
		e.reactionLogger().Warn("Form is not an inventory item", "editorID", editorID)
		l.PushBoolean(false)
		return 1
	}
	l.PushBoolean(modhook.AddItemToPlayer(res, item, uint32(count)))
	return 1
}

func pushHit(l *lua.State, hit modhook.ResolvedHit) {
	l.NewTable()
	setString(l, "target", hit.Target.Name())
	setString(l, "target_id", hit.Event.Target.String())
	setString(l, "cause", hit.Cause.Name())
	setString(l, "cause_id", hit.Event.Cause.String())
	if hit.Weapon != nil {
		setString(l, "weapon", hit.Weapon.Name())
	}
	setNumber(l, "damage", float64(hit.Event.Damage))
	setBool(l, "target_dead", hit.Target.IsDead())
	setBool(l, "power_attack", hit.Event.Flags.Has(modhook.HitFlagPowerAttack))
	setBool(l, "sneak_attack", hit.Event.Flags.Has(modhook.HitFlagSneakAttack))
	setBool(l, "bash_attack", hit.Event.Flags.Has(modhook.HitFlagBashAttack))
	setBool(l, "blocked", hit.Event.Flags.Has(modhook.HitFlagHitBlocked))
}

func pushEquip(l *lua.State, equip modhook.ResolvedEquip) {
	l.NewTable()
	setString(l, "actor", equip.Actor.Name())
	setString(l, "actor_id", equip.Event.Actor.String())
	setString(l, "item", equip.Item.Name())
	setString(l, "item_id", equip.Event.BaseObject.String())
	setBool(l, "equipped", equip.Event.Equipped)
}

func setString(l *lua.State, key, value string) {
	l.PushString(value)
	l.SetField(-2, key)
}

func setNumber(l *lua.State, key string, value float64) {
	l.PushNumber(value)
	l.SetField(-2, key)
}

func setBool(l *lua.State, key string, value bool) {
	l.PushBoolean(value)
	l.SetField(-2, key)
}
