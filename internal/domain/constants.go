package domain

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MinMonth                    = 1
	MaxMonth                    = 12
	MaxCancellationReasonLength = 500
	MaxRuleDescriptionLength    = 500
	MaxTransactionIDLength      = 128
)

// monthLabels названия месяцев для строк помесячной разбивки
var monthLabels = [...]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// MonthLabel returns the russian label of a calendar month (1..12)
func MonthLabel(month int) string {
	if month < MinMonth || month > MaxMonth {
		return ""
	}
	return monthLabels[month-1]
}

// User roles as reported by the user service
const (
	RoleAdmin       = "admin"
	RoleClubOwner   = "club_owner"
	RoleVesselOwner = "vessel_owner"
)
