package domain

import "fmt"

// Set assigns a typed value to the named slot. The value must already be
// coerced to the slot's schema type (int for ages, float64 for currency,
// bool, or string); a mismatch is a programming defect surfaced as an error.
func (sl *Slots) Set(name VarName, value any) error {
	switch name {
	case VarCurrentAge:
		return assignInt(&sl.CurrentAge, name, value)
	case VarRetirementAge:
		return assignInt(&sl.RetirementAge, name, value)
	case VarRetirementDrawdownAge:
		return assignInt(&sl.RetirementDrawdownAge, name, value)
	case VarCurrentBalance:
		return assignFloat(&sl.CurrentBalance, name, value)
	case VarCurrentIncome:
		return assignFloat(&sl.CurrentIncome, name, value)
	case VarRetirementIncome:
		return assignFloat(&sl.RetirementIncome, name, value)
	case VarIncomeNetOfSuper:
		return assignFloat(&sl.IncomeNetOfSuper, name, value)
	case VarAfterTaxIncome:
		return assignFloat(&sl.AfterTaxIncome, name, value)
	case VarRetirementBalance:
		return assignFloat(&sl.RetirementBalance, name, value)
	case VarSuperIncluded:
		return assignBool(&sl.SuperIncluded, name, value)
	case VarOwnsHome:
		return assignBool(&sl.OwnsHome, name, value)
	case VarCurrentFund:
		return assignString(&sl.CurrentFund, name, value)
	case VarNominatedFund:
		return assignString(&sl.NominatedFund, name, value)
	case VarRetirementIncomeOption:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("slot %s: expected string, got %T", name, value)
		}
		if !ValidRetirementIncomeOptions[s] {
			return fmt.Errorf("slot %s: unknown option %q", name, s)
		}
		opt := RetirementIncomeOption(s)
		sl.RetirementIncomeOption = &opt
		return nil
	case VarRelationshipStatus:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("slot %s: expected string, got %T", name, value)
		}
		if s != string(StatusSingle) && s != string(StatusCouple) {
			return fmt.Errorf("slot %s: unknown status %q", name, s)
		}
		status := RelationshipStatus(s)
		sl.RelationshipStatus = &status
		return nil
	default:
		return fmt.Errorf("unknown slot %q", name)
	}
}

// Get returns the current value of the named slot and whether it is set.
func (sl Slots) Get(name VarName) (any, bool) {
	switch name {
	case VarCurrentAge:
		return deref(sl.CurrentAge)
	case VarRetirementAge:
		return deref(sl.RetirementAge)
	case VarRetirementDrawdownAge:
		return deref(sl.RetirementDrawdownAge)
	case VarCurrentBalance:
		return deref(sl.CurrentBalance)
	case VarCurrentIncome:
		return deref(sl.CurrentIncome)
	case VarRetirementIncome:
		return deref(sl.RetirementIncome)
	case VarIncomeNetOfSuper:
		return deref(sl.IncomeNetOfSuper)
	case VarAfterTaxIncome:
		return deref(sl.AfterTaxIncome)
	case VarRetirementBalance:
		return deref(sl.RetirementBalance)
	case VarSuperIncluded:
		return deref(sl.SuperIncluded)
	case VarOwnsHome:
		return deref(sl.OwnsHome)
	case VarCurrentFund:
		return deref(sl.CurrentFund)
	case VarNominatedFund:
		return deref(sl.NominatedFund)
	case VarRetirementIncomeOption:
		if sl.RetirementIncomeOption == nil {
			return nil, false
		}
		return string(*sl.RetirementIncomeOption), true
	case VarRelationshipStatus:
		if sl.RelationshipStatus == nil {
			return nil, false
		}
		return string(*sl.RelationshipStatus), true
	default:
		return nil, false
	}
}

func deref[T any](p *T) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

func assignInt(dst **int, name VarName, value any) error {
	switch v := value.(type) {
	case int:
		*dst = &v
		return nil
	case float64:
		n := int(v)
		*dst = &n
		return nil
	default:
		return fmt.Errorf("slot %s: expected int, got %T", name, value)
	}
}

func assignFloat(dst **float64, name VarName, value any) error {
	switch v := value.(type) {
	case float64:
		*dst = &v
		return nil
	case int:
		f := float64(v)
		*dst = &f
		return nil
	default:
		return fmt.Errorf("slot %s: expected float64, got %T", name, value)
	}
}

func assignBool(dst **bool, name VarName, value any) error {
	b, ok := value.(bool)
	if !ok {
		return fmt.Errorf("slot %s: expected bool, got %T", name, value)
	}
	*dst = &b
	return nil
}

func assignString(dst **string, name VarName, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("slot %s: expected string, got %T", name, value)
	}
	*dst = &s
	return nil
}
