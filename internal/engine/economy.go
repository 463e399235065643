package engine

type PurchaseResult struct {
	Profile Profile
	Healed  int
	Stored  bool
}

// Purchase debits the reward's cost. Potions heal immediately; every other
// reward type is credited to the inventory. On rejection the input profile
// is returned untouched.
func Purchase(p Profile, r Reward, rules Rules, tun Tuning) (PurchaseResult, error) {
	if err := CanShop(rules); err != nil {
		return PurchaseResult{Profile: p}, err
	}
	if r.Cost < 0 || !r.Currency.IsValid() {
		return PurchaseResult{Profile: p}, ErrInvalidAmount
	}
	if p.Balance(r.Currency) < r.Cost {
		return PurchaseResult{Profile: p}, ErrInsufficientFunds
	}

	next := p.clone()
	switch r.Currency {
	case Diamond:
		next.Diamonds -= r.Cost
	default:
		next.Emeralds -= r.Cost
	}

	res := PurchaseResult{}
	if r.Type == RewardPotion {
		before := next.HP
		next.HP = clamp(next.HP+tun.PotionHeal, 0, next.MaxHP)
		res.Healed = next.HP - before
	} else {
		next.Inventory[r.ID]++
		res.Stored = true
	}
	res.Profile = next
	return res, nil
}

type AdjustKind string

const (
	AdjustXP      AdjustKind = "XP"
	AdjustEmerald AdjustKind = "EMERALD"
	AdjustDiamond AdjustKind = "DIAMOND"
	AdjustHP      AdjustKind = "HP"
)

func (k AdjustKind) IsValid() bool {
	switch k {
	case AdjustXP, AdjustEmerald, AdjustDiamond, AdjustHP:
		return true
	default:
		return false
	}
}

// Adjust applies a manual parent correction. Every quantity is clamped to
// its valid range; positive XP runs through the normal level-up loop.
func Adjust(p Profile, amount int, kind AdjustKind, tun Tuning) (Profile, error) {
	if amount == 0 || !kind.IsValid() {
		return p, ErrInvalidAmount
	}
	next := p.clone()
	switch kind {
	case AdjustXP:
		if amount > 0 {
			gainXP(&next, amount, tun)
		} else {
			next.Experience = nonNegative(next.Experience + amount)
		}
	case AdjustEmerald:
		next.Emeralds = nonNegative(next.Emeralds + amount)
	case AdjustDiamond:
		next.Diamonds = nonNegative(next.Diamonds + amount)
	case AdjustHP:
		next.HP = clamp(next.HP+amount, 0, next.MaxHP)
	}
	return next, nil
}
