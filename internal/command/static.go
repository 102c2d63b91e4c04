package command

// StaticEntries is the hand-authored portion of the catalog. These render
// immediately; the dynamic sources fill in around them as fetches resolve.
func StaticEntries() []Entry {
	return []Entry{
		{
			ID:       "nav:inventory",
			Label:    "Inventory",
			Icon:     "cube",
			Keywords: []string{"objects", "infrastructure", "go"},
			Category: CategoryNavigation,
			Target:   "/inventory",
		},
		{
			ID:       "nav:services",
			Label:    "Services",
			Icon:     "server",
			Keywords: []string{"deployables", "catalog", "go"},
			Category: CategoryNavigation,
			Target:   "/services",
		},
		{
			ID:       "nav:jobs",
			Label:    "Jobs",
			Icon:     "clock",
			Keywords: []string{"runs", "history", "go"},
			Category: CategoryNavigation,
			Target:   "/jobs",
		},
		{
			ID:       "nav:recent",
			Label:    "Recent",
			Icon:     "history",
			Keywords: []string{"visited", "go"},
			Category: CategoryNavigation,
			Target:   "/recent",
		},
		{
			ID:                 "action:refresh-catalog",
			Label:              "Refresh Catalog",
			Icon:               "refresh",
			Keywords:           []string{"reload", "revalidate", "sources"},
			Category:           CategoryAction,
			RequiredPermission: "system.maintenance",
			Target:             "/actions/refresh-catalog",
		},
		{
			ID:                 "action:prune-jobs",
			Label:              "Prune Completed Jobs",
			Icon:               "broom",
			Keywords:           []string{"cleanup", "jobs"},
			Category:           CategoryAction,
			RequiredPermission: "system.maintenance",
			Target:             "/actions/prune-jobs",
		},
		{
			ID:                 "admin:users",
			Label:              "Manage Users",
			Icon:               "users",
			Keywords:           []string{"accounts", "permissions", "admin"},
			Category:           CategoryAdmin,
			RequiredPermission: "admin.users",
			Target:             "/admin/users",
		},
		{
			ID:                 "admin:webhooks",
			Label:              "Manage Webhooks",
			Icon:               "webhook",
			Keywords:           []string{"hooks", "integrations", "admin"},
			Category:           CategoryAdmin,
			RequiredPermission: "admin.webhooks",
			Target:             "/admin/webhooks",
		},
		{
			ID:       "quick:palette-help",
			Label:    "Keyboard Shortcuts",
			Icon:     "keyboard",
			Keywords: []string{"help", "keys", "bindings"},
			Category: CategoryQuickAction,
			Target:   "/help/keys",
		},
	}
}
