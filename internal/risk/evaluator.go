package risk

import "github.com/nao1215/breachscan/internal/model"

// verdicts holds the guidance text for each decision row.
var verdicts = map[model.RiskReason]model.RiskVerdict{
	model.ReasonBreachAndPassword: {
		Level:          model.RiskHigh,
		Message:        "Email breached AND password is compromised",
		Recommendation: "Change password immediately!",
		Reason:         model.ReasonBreachAndPassword,
	},
	model.ReasonBreachOnly: {
		Level:          model.RiskMedium,
		Message:        "Email breached but password appears safe",
		Recommendation: "Change password if you still use it for this account",
		Reason:         model.ReasonBreachOnly,
	},
	model.ReasonPasswordOnly: {
		Level:          model.RiskMedium,
		Message:        "Password is compromised",
		Recommendation: "Change this password everywhere you use it",
		Reason:         model.ReasonPasswordOnly,
	},
	model.ReasonNoExposure: {
		Level:          model.RiskLow,
		Message:        "No exposure detected",
		Recommendation: "Continue using strong, unique passwords",
		Reason:         model.ReasonNoExposure,
	},
}

// Evaluate returns the verdict for the given signals. Rows are checked in
// order and the first match wins:
//
//	email found, password seen           -> high
//	email found, password clean/unknown  -> medium
//	password seen                        -> medium
//	anything else                        -> low
func Evaluate(email model.EmailExposure, password model.PasswordExposure) model.RiskVerdict {
	return Verdict(Classify(email, password))
}

// Classify returns the decision row matched by the signals.
func Classify(email model.EmailExposure, password model.PasswordExposure) model.RiskReason {
	breached := email.Found()
	compromised := password.Compromised()

	switch {
	case breached && compromised:
		return model.ReasonBreachAndPassword
	case breached:
		return model.ReasonBreachOnly
	case compromised:
		return model.ReasonPasswordOnly
	default:
		return model.ReasonNoExposure
	}
}

// Verdict returns the fixed verdict for a decision row.
// Unrecognized reasons map to the no-exposure verdict.
func Verdict(reason model.RiskReason) model.RiskVerdict {
	if v, ok := verdicts[reason]; ok {
		return v
	}
	return verdicts[model.ReasonNoExposure]
}
