package combat_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/game/inventory"
)

func newEngine(src combat.Source, policy combat.Policy) *combat.Engine {
	return combat.NewEngine(src, policy, combat.DefaultRewards(), zap.NewNop())
}

// pairAB returns A (dex 70) and B (dex 30), otherwise identical dagger fighters in cloth.
func pairAB() (*character.Character, *character.Character) {
	a := fighter("A", 30, 50, 70, dagger, inventory.EmptyOffHand(), cloth)
	b := fighter("B", 30, 50, 30, dagger, inventory.EmptyOffHand(), cloth)
	return a, b
}

func TestFight_AllZeroRolls_EveryAttackMisses(t *testing.T) {
	a, b := pairAB()
	res, err := newEngine(fixedSrc{val: 0}, combat.Policy{ClampMitigation: true, MaxTurns: 50}).Fight(a, b)
	require.NoError(t, err)

	assert.Equal(t, combat.Draw, res.Outcome)
	assert.Equal(t, 50, res.Turns)
	assert.Nil(t, res.Winner)
	for _, c := range res.Combatants {
		assert.Equal(t, 100.0, c.Health)
		assert.Nil(t, c.Stats.Winner)
		assert.NotEmpty(t, c.Stats.Attacks)
		for _, at := range c.Stats.Attacks {
			assert.False(t, at.IsSuccessful)
			assert.Nil(t, at.Critical)
			assert.Nil(t, at.Damage)
		}
		assert.Empty(t, c.Stats.Wounds)
	}
	// Dodges are rolled even for misses.
	assert.Len(t, res.Combatants[0].Stats.Dodges, len(res.Combatants[1].Stats.Attacks))
	assert.Len(t, res.Combatants[1].Stats.Dodges, len(res.Combatants[0].Stats.Attacks))
	assert.Zero(t, a.Wins+a.Losses+b.Wins+b.Losses)
	assert.Zero(t, a.Experience+b.Experience+a.Gold+b.Gold)
}

func TestFight_AllMaxRolls_EveryAttackDodged(t *testing.T) {
	a, b := pairAB()
	res, err := newEngine(fixedSrc{val: 100}, combat.Policy{ClampMitigation: true, MaxTurns: 50}).Fight(a, b)
	require.NoError(t, err)

	assert.Equal(t, combat.Draw, res.Outcome)
	for _, c := range res.Combatants {
		assert.Equal(t, 100.0, c.Health)
		for _, at := range c.Stats.Attacks {
			assert.True(t, at.IsSuccessful)
			assert.True(t, at.WasDodged)
			assert.Nil(t, at.Critical)
		}
	}
}

func TestFight_HitNoDodgeCrit_ExactTrajectory(t *testing.T) {
	a, b := pairAB()
	// hit, dodge, critical for every swing; no damage variability.
	src := &seqSrc{vals: []int{100, 0, 100}}
	res, err := newEngine(src, combat.DefaultPolicy()).Fight(a, b)
	require.NoError(t, err)

	require.Equal(t, combat.Victory, res.Outcome)
	assert.Equal(t, 2, res.Turns)
	assert.Same(t, a, res.Winner.Character)
	assert.Same(t, b, res.Loser.Character)

	type step struct {
		attacker string
		health   float64
	}
	var got []step
	for _, ev := range res.Events {
		assert.True(t, ev.Hit)
		assert.False(t, ev.Dodged)
		assert.True(t, ev.Critical)
		assert.Equal(t, 30, ev.Damage)
		got = append(got, step{ev.Attacker, ev.DefenderHealth})
	}
	assert.Equal(t, []step{
		{"B", 70}, {"A", 70}, {"A", 40},
		{"B", 40}, {"A", 10}, {"A", -20},
	}, got)

	assert.Equal(t, 1, a.Wins)
	assert.Equal(t, 0, a.Losses)
	assert.Equal(t, 200, a.Experience)
	assert.Equal(t, 10, a.Gold)
	assert.Equal(t, 0, b.Wins)
	assert.Equal(t, 1, b.Losses)
	assert.Equal(t, 75, b.Experience)
	assert.Equal(t, 5, b.Gold)

	ca, cb := res.Combatants[0], res.Combatants[1]
	require.NotNil(t, ca.Stats.Winner)
	require.NotNil(t, cb.Stats.Winner)
	assert.True(t, *ca.Stats.Winner)
	assert.False(t, *cb.Stats.Winner)

	// The lethal swing is recorded.
	require.Len(t, ca.Stats.Attacks, 4)
	require.Len(t, cb.Stats.Wounds, 4)
	last := ca.Stats.Attacks[3]
	assert.Equal(t, 46.0, last.BaseChance)
	assert.Equal(t, 0.0, last.WeightChanceReduction)
	assert.Equal(t, 100, last.Rolled)
	require.NotNil(t, last.Critical)
	assert.Equal(t, 90.0, last.Critical.Chance)
	require.NotNil(t, last.Damage)
	assert.Equal(t, 30, last.Damage.DamageCaused)
	assert.Equal(t, inventory.MaterialNone, last.Damage.AgainstArmourType)
	assert.Equal(t, 0.0, last.Damage.DamageBlockedByArmour)
	assert.Equal(t, 70.0, cb.Stats.Dodges[3].BaseChance)
	assert.Equal(t, woundFor("Dagger", "Cloth", 50, 30), cb.Stats.Wounds[3])
}

// woundFor builds the expected wound for an unmitigated critical dagger hit.
func woundFor(weapon, armour string, strength, damage int) combat.WoundStats {
	return combat.WoundStats{
		Weapon:           weapon,
		Armour:           armour,
		AttackerStrength: strength,
		IsCriticalDamage: true,
		DamageTaken:      damage,
	}
}

func TestFight_Stalemate(t *testing.T) {
	heavy := func(name string) *character.Character {
		// Burden 35 + 5 - 0 = 40, equal to dexterity.
		return fighter(name, 0, 0, 40, dagger, inventory.EmptyOffHand(), plate)
	}
	one, two := heavy("one"), heavy("two")
	res, err := newEngine(fixedSrc{val: 100}, combat.DefaultPolicy()).Fight(one, two)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, combat.ErrStalemate))
	assert.Zero(t, one.Losses+two.Losses)
}

// clampPair returns a weak attacker P and a plate-armoured defender Q whose
// armour absorbs more than P's critical stick hit.
func clampPair() (*character.Character, *character.Character) {
	p := fighter("P", 30, 10, 70, stick, inventory.EmptyOffHand(), cloth)
	q := fighter("Q", 30, 50, 30, dagger, inventory.EmptyOffHand(), plate)
	return p, q
}

func TestFight_ClampMitigation_HealthNeverRises(t *testing.T) {
	p, q := clampPair()
	res, err := newEngine(&seqSrc{vals: []int{100, 0, 100}}, combat.Policy{ClampMitigation: true, MaxTurns: 1}).Fight(p, q)
	require.NoError(t, err)
	assert.Equal(t, combat.Draw, res.Outcome)

	cq := res.Combatants[1]
	assert.Equal(t, 100.0, cq.Health)
	require.Len(t, res.Combatants[0].Stats.Attacks, 2)
	for _, at := range res.Combatants[0].Stats.Attacks {
		require.NotNil(t, at.Damage)
		// round(3 * 1.5) = 5 absorbed in full.
		assert.Equal(t, 5, at.Damage.DamageCaused)
		assert.Equal(t, 5.0, at.Damage.DamageBlockedByArmour)
		// 50 - 4 + 1.5 burden.
		assert.Equal(t, 1.5, at.WeightChanceReduction)
		assert.Equal(t, 47.5, at.Chance)
	}
}

func TestFight_Unclamped_ArmourHeals(t *testing.T) {
	p, q := clampPair()
	res, err := newEngine(&seqSrc{vals: []int{100, 0, 100}}, combat.Policy{ClampMitigation: false, MaxTurns: 1}).Fight(p, q)
	require.NoError(t, err)

	cq := res.Combatants[1]
	// Two swings of 5 against 11.4 mitigation.
	assert.InDelta(t, 112.8, cq.Health, 1e-9)
	for _, at := range res.Combatants[0].Stats.Attacks {
		require.NotNil(t, at.Damage)
		assert.InDelta(t, 11.4, at.Damage.DamageBlockedByArmour, 1e-9)
	}
}

func TestFight_DualWield_SwingsBothHands(t *testing.T) {
	a := fighter("A", 30, 50, 70, dagger, inventory.WeaponOffHand(mace), cloth)
	b := fighter("B", 30, 50, 30, dagger, inventory.EmptyOffHand(), padding)
	res, err := newEngine(fixedSrc{val: 0}, combat.Policy{MaxTurns: 1}).Fight(a, b)
	require.NoError(t, err)

	attacks := res.Combatants[0].Stats.Attacks
	require.NotEmpty(t, attacks)
	require.Zero(t, len(attacks)%2, "every action swings both hands")
	for i, at := range attacks {
		if i%2 == 0 {
			assert.Equal(t, combat.HandMain, at.Hand)
		} else {
			assert.Equal(t, combat.HandOff, at.Hand)
		}
	}
	for _, at := range res.Combatants[1].Stats.Attacks {
		assert.Equal(t, combat.HandMain, at.Hand)
	}
}

func TestFight_DualWield_LethalMainHandSkipsOffHand(t *testing.T) {
	// A leads on initiative (68.5 vs 65.5); B has 20 health.
	a := fighter("A", 30, 50, 70, mace, inventory.WeaponOffHand(dagger), cloth)
	b := fighter("B", 30, 10, 30, dagger, inventory.EmptyOffHand(), cloth)
	res, err := newEngine(&seqSrc{vals: []int{100, 0, 100}}, combat.DefaultPolicy()).Fight(a, b)
	require.NoError(t, err)

	require.Equal(t, combat.Victory, res.Outcome)
	assert.Same(t, res.Combatants[0], res.Winner)
	assert.Equal(t, 1, res.Turns)

	// 60 + 50/5*0.5 = 65, critical: round(97.5) = 98.
	attacks := res.Combatants[0].Stats.Attacks
	require.Len(t, attacks, 1)
	assert.Equal(t, combat.HandMain, attacks[0].Hand)
	require.NotNil(t, attacks[0].Damage)
	assert.Equal(t, 98, attacks[0].Damage.DamageCaused)

	require.Len(t, res.Events, 1)
	assert.Equal(t, combat.HandMain, res.Events[0].Hand)
	assert.Equal(t, -78.0, res.Events[0].DefenderHealth)
	assert.Empty(t, res.Combatants[1].Stats.Attacks)
	assert.Len(t, res.Combatants[1].Stats.Dodges, 1)
}

func dualWieldOffHandMitigation(t *testing.T, edge combat.EdgePolicy) (mainHand, offHand float64) {
	t.Helper()
	a := fighter("A", 30, 50, 70, dagger, inventory.WeaponOffHand(mace), cloth)
	b := fighter("B", 30, 50, 30, dagger, inventory.EmptyOffHand(), padding)
	res, err := newEngine(&seqSrc{vals: []int{100, 0, 0}}, combat.Policy{ClampMitigation: true, OffHandEdge: edge, MaxTurns: 1}).Fight(a, b)
	require.NoError(t, err)

	attacks := res.Combatants[0].Stats.Attacks
	require.GreaterOrEqual(t, len(attacks), 2)
	require.NotNil(t, attacks[0].Damage)
	require.NotNil(t, attacks[1].Damage)
	require.Equal(t, combat.HandOff, attacks[1].Hand)
	return attacks[0].Damage.DamageBlockedByArmour, attacks[1].Damage.DamageBlockedByArmour
}

func TestFight_OffHandEdge_MainHandPolicy(t *testing.T) {
	mainHand, offHand := dualWieldOffHandMitigation(t, combat.EdgeMainHand)
	// Padded against the dagger's pierce edge: 2 * 0.5 for both swings.
	assert.Equal(t, 1.0, mainHand)
	assert.Equal(t, 1.0, offHand)
}

func TestFight_OffHandEdge_StrikingWeaponPolicy(t *testing.T) {
	mainHand, offHand := dualWieldOffHandMitigation(t, combat.EdgeStrikingWeapon)
	assert.Equal(t, 1.0, mainHand)
	// The mace is blunt: 2 * 1.0.
	assert.Equal(t, 2.0, offHand)
}

func TestFight_DualWield_HalvedStrengthBonus(t *testing.T) {
	a := fighter("A", 30, 50, 70, dagger, inventory.WeaponOffHand(mace), cloth)
	b := fighter("B", 30, 50, 30, dagger, inventory.EmptyOffHand(), cloth)
	res, err := newEngine(&seqSrc{vals: []int{100, 0, 0}}, combat.Policy{ClampMitigation: true, MaxTurns: 1}).Fight(a, b)
	require.NoError(t, err)

	attacks := res.Combatants[0].Stats.Attacks
	require.GreaterOrEqual(t, len(attacks), 2)
	// 10 + 50/5*0.5 and 60 + 50/5*0.5, no critical.
	assert.Equal(t, 15, attacks[0].Damage.DamageCaused)
	assert.Equal(t, 65, attacks[1].Damage.DamageCaused)
}

// shieldedPair returns A and a plate-armoured, buckler-carrying B whose
// burden leaves it no action in turn 1, so every swing of turn 1 is A's.
func shieldedPair(durability int) (*character.Character, *character.Character, *inventory.Shield) {
	s := inventory.NewShield(buckler)
	s.Durability = durability
	a := fighter("A", 30, 50, 70, dagger, inventory.EmptyOffHand(), cloth)
	b := fighter("B", 30, 50, 30, dagger, inventory.ShieldOffHand(s), plate)
	return a, b, s
}

func TestFight_Shield_BlockNegatesDamage(t *testing.T) {
	a, b, s := shieldedPair(500)
	// hit, no dodge, critical, block.
	res, err := newEngine(&seqSrc{vals: []int{100, 0, 100, 100}}, combat.Policy{ClampMitigation: true, MaxTurns: 1}).Fight(a, b)
	require.NoError(t, err)

	ca, cb := res.Combatants[0], res.Combatants[1]
	require.Len(t, ca.Stats.Attacks, 2)
	require.Len(t, cb.Stats.Blocks, 2)
	for _, bl := range cb.Stats.Blocks {
		assert.Equal(t, 95.0, bl.Chance)
		assert.Equal(t, 100, bl.Rolled)
		assert.Equal(t, 30, bl.Damage)
		assert.True(t, bl.IsSuccessful)
	}
	for _, at := range ca.Stats.Attacks {
		assert.Nil(t, at.Damage, "blocked attacks apply no damage")
		assert.True(t, at.Critical.IsSuccessful)
	}
	assert.Equal(t, 100.0, cb.Health)
	assert.Equal(t, 440, s.Durability)

	require.Len(t, cb.Stats.Wounds, 2, "wounds are recorded even when blocked")
	assert.Equal(t, 30, cb.Stats.Wounds[0].DamageTaken)
	assert.InDelta(t, 10.2, cb.Stats.Wounds[0].DamageBlockedByArmour, 1e-9)
	assert.True(t, res.Events[0].Blocked)
	assert.Equal(t, "B blocks A's Dagger.", res.Events[0].Narrative)
}

func TestFight_Shield_FailedBlockStillWears(t *testing.T) {
	a, b, s := shieldedPair(500)
	res, err := newEngine(&seqSrc{vals: []int{100, 0, 100, 0}}, combat.Policy{ClampMitigation: true, MaxTurns: 1}).Fight(a, b)
	require.NoError(t, err)

	cb := res.Combatants[1]
	require.Len(t, cb.Stats.Blocks, 2)
	for _, bl := range cb.Stats.Blocks {
		assert.False(t, bl.IsSuccessful)
	}
	assert.Equal(t, 440, s.Durability)
	// 30 against plate's 10.2 pierce mitigation, twice.
	assert.InDelta(t, 60.4, cb.Health, 1e-9)
}

func TestFight_BrokenShield_NeverBlocks(t *testing.T) {
	a, b, s := shieldedPair(0)
	res, err := newEngine(&seqSrc{vals: []int{100, 0, 100}}, combat.Policy{ClampMitigation: true, MaxTurns: 1}).Fight(a, b)
	require.NoError(t, err)

	cb := res.Combatants[1]
	assert.Empty(t, cb.Stats.Blocks)
	assert.Equal(t, 0, s.Durability)
	assert.InDelta(t, 60.4, cb.Health, 1e-9)
	// The broken shield no longer adds to the burden penalty.
	assert.Equal(t, 1.5, res.Combatants[0].Stats.Attacks[0].WeightChanceReduction)
}

func TestFight_ShieldWearPersistsAcrossBattles(t *testing.T) {
	a, b, s := shieldedPair(40)
	eng := newEngine(&seqSrc{vals: []int{100, 0, 100, 0}}, combat.Policy{ClampMitigation: true, MaxTurns: 1})

	first, err := eng.Fight(a, b)
	require.NoError(t, err)
	// 40 - 30 leaves the shield active for the second check.
	assert.Len(t, first.Combatants[1].Stats.Blocks, 2)
	assert.Equal(t, -20, s.Durability)

	second, err := eng.Fight(a, b)
	require.NoError(t, err)
	assert.Empty(t, second.Combatants[1].Stats.Blocks)
	assert.Equal(t, -20, s.Durability)
}

func TestFight_LogsOutcome(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	a, b := pairAB()
	eng := combat.NewEngine(&seqSrc{vals: []int{100, 0, 100}}, combat.DefaultPolicy(), combat.DefaultRewards(), zap.New(core))
	res, err := eng.Fight(a, b)
	require.NoError(t, err)

	assert.Equal(t, len(res.Events), logs.FilterMessage("swing").Len())
	won := logs.FilterMessage("battle won").All()
	require.Len(t, won, 1)
	assert.Equal(t, "A", won[0].ContextMap()["winner"])
}

func TestNewEngine_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { combat.NewEngine(nil, combat.DefaultPolicy(), combat.DefaultRewards(), zap.NewNop()) })
	assert.Panics(t, func() { combat.NewEngine(fixedSrc{}, combat.DefaultPolicy(), nil, zap.NewNop()) })
	assert.Panics(t, func() { combat.NewEngine(fixedSrc{}, combat.DefaultPolicy(), combat.DefaultRewards(), nil) })
}

func TestEvent_Narrative(t *testing.T) {
	a, b := pairAB()
	res, err := newEngine(&seqSrc{vals: []int{100, 0, 100}}, combat.DefaultPolicy()).Fight(a, b)
	require.NoError(t, err)
	assert.Equal(t, "B critically hits A with Dagger for 30.", res.Events[0].Narrative)

	a, b = pairAB()
	res, err = newEngine(fixedSrc{val: 0}, combat.Policy{MaxTurns: 1}).Fight(a, b)
	require.NoError(t, err)
	assert.Equal(t, "B swings Dagger at A and misses.", res.Events[0].Narrative)
}

func TestProperty_Fight_SingleOutcome(t *testing.T) {
	weapons := []*inventory.WeaponDef{dagger, mace, stick}
	armours := []*inventory.ArmourDef{cloth, padding, plate}
	gen := func(rt *rapid.T, label string) *character.Character {
		off := inventory.EmptyOffHand()
		switch rapid.IntRange(0, 2).Draw(rt, label+"_off") {
		case 1:
			off = inventory.WeaponOffHand(rapid.SampledFrom(weapons).Draw(rt, label+"_offweapon"))
		case 2:
			off = inventory.ShieldOffHand(inventory.NewShield(buckler))
		}
		return fighter(label,
			rapid.IntRange(0, 100).Draw(rt, label+"_int"),
			rapid.IntRange(1, 100).Draw(rt, label+"_str"),
			rapid.IntRange(0, 120).Draw(rt, label+"_dex"),
			rapid.SampledFrom(weapons).Draw(rt, label+"_main"),
			off,
			rapid.SampledFrom(armours).Draw(rt, label+"_armour"),
		)
	}
	rapid.Check(t, func(rt *rapid.T) {
		one, two := gen(rt, "one"), gen(rt, "two")
		seed := rapid.Uint64().Draw(rt, "seed")
		eng := newEngine(dice.NewSeededSource(seed), combat.Policy{ClampMitigation: true, MaxTurns: 100})

		res, err := eng.Fight(one, two)
		if errors.Is(err, combat.ErrStalemate) {
			return
		}
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		wins := one.Wins + two.Wins
		losses := one.Losses + two.Losses
		switch res.Outcome {
		case combat.Victory:
			if wins != 1 || losses != 1 {
				rt.Fatalf("victory with wins=%d losses=%d", wins, losses)
			}
			if !res.Loser.IsDefeated() || res.Winner.IsDefeated() {
				rt.Fatalf("winner health %v, loser health %v", res.Winner.Health, res.Loser.Health)
			}
		case combat.Draw:
			if wins != 0 || losses != 0 {
				rt.Fatalf("draw with wins=%d losses=%d", wins, losses)
			}
			if res.Turns != 100 {
				rt.Fatalf("draw after %d turns", res.Turns)
			}
		}
		for _, c := range res.Combatants {
			if c.Health > character.HealthPool(&c.Character.Actor) {
				rt.Fatalf("%s health %v above pool", c.Name(), c.Health)
			}
		}
	})
}
