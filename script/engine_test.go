package script

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCodeAlone/modhook"
	"github.com/GoCodeAlone/modhook/hosttest"
)

type fixture struct {
	forms  *hosttest.Forms
	player *hosttest.Actor
	bandit *hosttest.Actor
	gold   *hosttest.Item
	sword  *hosttest.Item
	logs   *bytes.Buffer
	rc     modhook.ReactionContext
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{forms: hosttest.NewForms(), logs: &bytes.Buffer{}}
	f.player = f.forms.AddActor(0x14, "Player", "Prisoner")
	f.forms.SetPlayer(f.player)
	f.bandit = f.forms.AddActor(0xA2C94, "EncBandit01", "Bandit")
	f.gold = f.forms.AddItem(0xF, "Gold001", "Gold", modhook.FormTypeMisc)
	f.sword = f.forms.AddItem(0x12EB7, "IronSword", "Iron Sword", modhook.FormTypeWeapon)

	logger := slog.New(slog.NewTextHandler(f.logs, nil))
	f.rc = modhook.ReactionContext{
		Context:  context.Background(),
		Resolver: modhook.NewResolver(f.forms, logger),
		Logger:   logger,
	}
	return f
}

func (f *fixture) hit(damage float32) modhook.ResolvedHit {
	return modhook.ResolvedHit{
		Event:  modhook.HitEvent{Target: f.bandit.ID, Cause: f.player.ID, Source: f.sword.ID, Damage: damage, Flags: modhook.HitFlagSneakAttack},
		Target: f.bandit,
		Cause:  f.player,
		Weapon: f.sword,
	}
}

func (f *fixture) equip(equipped bool) modhook.ResolvedEquip {
	return modhook.ResolvedEquip{
		Event: modhook.EquipEvent{Actor: f.player.ID, BaseObject: f.sword.ID, Equipped: equipped},
		Actor: f.player,
		Item:  f.sword,
	}
}

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reactions.lua")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o600))
	return path
}

func TestNewEngine_Errors(t *testing.T) {
	_, err := NewEngine("", nil)
	assert.ErrorIs(t, err, ErrNoScriptPath)

	_, err = NewEngine(filepath.Join(t.TempDir(), "missing.lua"), nil)
	assert.Error(t, err)

	_, err = NewEngine(writeScript(t, "function on_hit(e"), nil)
	assert.Error(t, err, "syntax error")

	_, err = NewEngine(writeScript(t, `error("top level failure")`), nil)
	assert.Error(t, err)
}

func TestEngine_HitReaction(t *testing.T) {
	f := newFixture(t)
	e, err := NewEngine(writeScript(t, `
function on_hit(e)
  log.info(string.format("%s hit %s with %s for %s sneak=%s dead=%s id=%s",
    e.cause, e.target, e.weapon, tostring(e.damage), tostring(e.sneak_attack), tostring(e.target_dead), e.target_id))
  if e.damage >= 30 then
    player_add_item("Gold001", 5)
  end
end
`), nil)
	require.NoError(t, err)
	assert.True(t, e.Defines("on_hit"))
	assert.False(t, e.Defines("on_equip"))

	require.NoError(t, e.HitReaction()(f.rc, f.hit(12)))
	assert.Contains(t, f.logs.String(), "Prisoner hit Bandit with Iron Sword for 12 sneak=true dead=false id=000A2C94")
	assert.Zero(t, f.player.ItemCount(f.gold.ID))

	require.NoError(t, e.HitReaction()(f.rc, f.hit(30)))
	assert.Equal(t, uint32(5), f.player.ItemCount(f.gold.ID))
}

func TestEngine_FallsBackToDefaultReaction(t *testing.T) {
	f := newFixture(t)
	e, err := NewEngine(writeScript(t, `-- no reactions`), nil)
	require.NoError(t, err)

	require.NoError(t, e.HitReaction()(f.rc, f.hit(12.5)))
	assert.Contains(t, f.logs.String(), "msg=OnHit cause=Prisoner target=Bandit damage=12.5")

	require.NoError(t, e.EquipReaction()(f.rc, f.equip(true)))
	assert.Contains(t, f.logs.String(), `msg=OnEquip actor=Prisoner action=equipped item="Iron Sword"`)
}

func TestEngine_EquipReaction(t *testing.T) {
	f := newFixture(t)
	e, err := NewEngine(writeScript(t, `
function on_equip(e)
  if not e.equipped then
    return false, e.actor .. " dropped " .. e.item
  end
  log.warn("equipped " .. e.item_id)
  return true
end
`), nil)
	require.NoError(t, err)

	require.NoError(t, e.EquipReaction()(f.rc, f.equip(true)))
	assert.Contains(t, f.logs.String(), `level=WARN msg="equipped 00012EB7"`)

	err = e.EquipReaction()(f.rc, f.equip(false))
	require.ErrorIs(t, err, ErrScriptFailed)
	assert.Contains(t, err.Error(), "Prisoner dropped Iron Sword")
}

func TestEngine_RuntimeErrors(t *testing.T) {
	f := newFixture(t)
	e, err := NewEngine(writeScript(t, `
function on_hit(e)
  error("no handler for " .. e.target)
end
function on_equip(e)
  return false
end
`), nil)
	require.NoError(t, err)

	err = e.HitReaction()(f.rc, f.hit(1))
	require.ErrorIs(t, err, ErrScriptFailed)
	assert.Contains(t, err.Error(), "no handler for Bandit")

	err = e.EquipReaction()(f.rc, f.equip(true))
	require.ErrorIs(t, err, ErrScriptFailed)
	assert.Contains(t, err.Error(), "returned false")

	require.Error(t, e.HitReaction()(f.rc, f.hit(1)), "the state stays usable after an error")
}

func TestEngine_Lookup(t *testing.T) {
	f := newFixture(t)
	e, err := NewEngine(writeScript(t, `
function on_hit(e)
  local name = lookup("IronSword")
  local missing = lookup("DaedricSword")
  log.info("lookup " .. name .. " " .. tostring(missing))
  if player_add_item("EncBandit01", 1) then
    return false, "an actor is not an item"
  end
end
`), nil)
	require.NoError(t, err)

	require.NoError(t, e.HitReaction()(f.rc, f.hit(1)))
	out := f.logs.String()
	assert.Contains(t, out, `msg="lookup Iron Sword nil"`)
	assert.Contains(t, out, "editorID=DaedricSword")
	assert.Contains(t, out, `msg="Form is not an inventory item" editorID=EncBandit01`)
}

func TestEngine_ReloadKeepsOldScriptOnError(t *testing.T) {
	f := newFixture(t)
	path := writeScript(t, `function on_hit(e) log.info("version one") end`)
	e, err := NewEngine(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, e.Path())

	require.NoError(t, os.WriteFile(path, []byte(`function on_hit(e`), 0o600))
	assert.Error(t, e.Reload())
	require.NoError(t, e.HitReaction()(f.rc, f.hit(1)))
	assert.Contains(t, f.logs.String(), "version one")

	require.NoError(t, os.WriteFile(path, []byte(`function on_hit(e) log.info("version two") end`), 0o600))
	require.NoError(t, e.Reload())
	require.NoError(t, e.HitReaction()(f.rc, f.hit(1)))
	assert.Contains(t, f.logs.String(), "version two")
}

func TestEngine_ConcurrentReactions(t *testing.T) {
	f := newFixture(t)
	e, err := NewEngine(writeScript(t, `
count = 0
function on_hit(e)
  count = count + 1
end
`), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.HitReaction()(f.rc, f.hit(1))
		}()
	}
	wg.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Global("count")
	count, _ := e.state.ToInteger(-1)
	e.state.Pop(1)
	assert.Equal(t, 20, count)
}

func TestOptions(t *testing.T) {
	e, err := NewEngine(writeScript(t, `-- empty`), nil)
	require.NoError(t, err)

	opts, err := Options(e, false, nil)
	require.NoError(t, err)
	assert.Len(t, opts, 2)

	opts, err = Options(e, true, nil)
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	svc, err := NewWatcher(e, nil)
	require.NoError(t, err)
	assert.Equal(t, "watch:reactions.lua", svc.Name())
}
