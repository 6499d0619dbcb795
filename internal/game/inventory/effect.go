package inventory

// Effect is the closed set of special weapon effects.
type Effect string

const (
	EffectNone            Effect = ""
	EffectHeal            Effect = "heal"
	EffectRoar            Effect = "roar"
	EffectCharm           Effect = "charm"
	EffectParalysis       Effect = "paralysis"
	EffectShirikodama     Effect = "shirikodama"
	EffectAbyss           Effect = "abyss"
	EffectParalysisBreath Effect = "paralysis_breath"
	EffectRatInfection    Effect = "rat_infection"
	EffectIntimidate      Effect = "intimidate"
	EffectSpearInfection  Effect = "spear_infection"
	EffectKick            Effect = "kick"
	EffectLick            Effect = "lick"
	EffectUnequip         Effect = "unequip"
	EffectDance           Effect = "dance"
	EffectSummon          Effect = "summon"
	EffectShortfallDamage Effect = "shortfall_damage"
)

// Phase is the point in an attack at which an effect applies.
type Phase int

const (
	// PhaseNone effects do nothing.
	PhaseNone Phase = iota
	// PhasePreAttack effects apply once per target before the attack resolves.
	PhasePreAttack
	// PhaseResolution effects change how the attack itself resolves.
	PhaseResolution
	// PhasePostDamage effects apply after damage on a landed attack.
	PhasePostDamage
)

// AllEffects returns every effect in the catalog, including EffectNone.
func AllEffects() []Effect {
	return []Effect{
		EffectNone, EffectHeal, EffectRoar, EffectCharm, EffectParalysis,
		EffectShirikodama, EffectAbyss, EffectParalysisBreath, EffectRatInfection,
		EffectIntimidate, EffectSpearInfection, EffectKick, EffectLick,
		EffectUnequip, EffectDance, EffectSummon, EffectShortfallDamage,
	}
}

// Valid reports whether e belongs to the catalog.
func (e Effect) Valid() bool {
	for _, known := range AllEffects() {
		if e == known {
			return true
		}
	}
	return false
}

// Phase classifies e.
func (e Effect) Phase() Phase {
	switch e {
	case EffectHeal, EffectRoar:
		return PhasePreAttack
	case EffectSpearInfection, EffectShortfallDamage:
		return PhaseResolution
	case EffectNone:
		return PhaseNone
	}
	return PhasePostDamage
}
