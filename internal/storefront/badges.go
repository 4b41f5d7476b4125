package storefront

// Badge is the colored status label shown in the tracker.
type Badge struct {
	Variant string // bootstrap contextual class suffix
	Label   string
}

var badges = map[string]Badge{
	"réservé":        {Variant: "info", Label: "Réservé"},
	"finalisé":       {Variant: "success", Label: "Finalisé"},
	"annulé":         {Variant: "danger", Label: "Annulé"},
	"réponse_client": {Variant: "warning", Label: "En attente de l'administrateur"},
	"réponse_admin":  {Variant: "primary", Label: "Réponse reçue"},
}

// BadgeFor maps a backend status to its badge; unknown statuses keep their raw label.
func BadgeFor(status string) Badge {
	if b, ok := badges[status]; ok {
		return b
	}
	return Badge{Variant: "secondary", Label: status}
}
