// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

package window

import (
	"context"

	"github.com/hausbuch/hausbuch/internal/extension/builtin"
	"github.com/hausbuch/hausbuch/pkg/menu"
)

// Compile-time menu contributions shipped with the application. Each one is
// a builtin extension unit registered in the init-time side table under the
// same naming convention disk units follow.

func intPtr(v int) *int { return &v }

func staticMenu(items ...menu.Item) builtin.ContributeFunc {
	return func(_ context.Context, _ menu.Host) ([]menu.Item, error) {
		return items, nil
	}
}

func init() {
	builtin.MustRegister(builtin.Registration{
		ID:       "plugin_homepage_menu_account",
		Priority: intPtr(1),
		Contribute: staticMenu(menu.Item{
			Label: "Konto",
			Items: []menu.Item{
				{Label: "Konto hinzufügen", Action: "navigate:konto/neu"},
				{Label: "Konto bearbeiten", Action: "navigate:konto/bearbeiten"},
				{Label: "Konto löschen", Action: "navigate:konto/loeschen"},
				{Separator: true},
				{Label: "Kontenübersicht", Action: "navigate:konten"},
			},
		}),
	})

	builtin.MustRegister(builtin.Registration{
		ID:       "plugin_homepage_menu_cash",
		Priority: intPtr(1),
		Contribute: staticMenu(menu.Item{
			Label: "Bargeld",
			Items: []menu.Item{
				{Label: "Cash Page", Action: "navigate:bargeld"},
				{Label: "Transaktion hinzufügen", Action: "navigate:bargeld/transaktion"},
			},
		}),
	})

	builtin.MustRegister(builtin.Registration{
		ID:       "plugin_homepage_menu_data",
		Priority: intPtr(3),
		Contribute: staticMenu(menu.Item{
			Label: "Datenbank",
			Items: []menu.Item{
				{Label: "Datenbank erstellen", Action: "navigate:datenbank/erstellen"},
				{Label: "Datenbank löschen", Action: "navigate:datenbank/loeschen"},
			},
		}),
	})

	builtin.MustRegister(builtin.Registration{
		ID:       "plugin_homepage_menu_transaction",
		Priority: intPtr(20),
		Contribute: staticMenu(menu.Item{
			Label: "Transaktionen",
			Items: []menu.Item{
				{Label: "Manuelle Transaktion hinzufügen", Action: "navigate:transaktionen/neu"},
				{Label: "Transaktionen aus MT940-Datei importieren", Action: "navigate:transaktionen/mt940"},
				{Label: "Transaktion bearbeiten", Action: "navigate:transaktionen/bearbeiten"},
				{Label: "Transaktion löschen", Action: "navigate:transaktionen/loeschen"},
				{Separator: true},
				{Label: "Transaktionsübersicht", Action: "navigate:transaktionen"},
			},
		}),
	})

	builtin.MustRegister(builtin.Registration{
		ID:       "plugin_homepage_menu_overview",
		Priority: intPtr(25),
		Contribute: staticMenu(menu.Item{
			Label: "Übersicht",
			Items: []menu.Item{
				{Label: "Eingaben und Ausgaben", Action: "navigate:uebersicht/einaus"},
				{Label: "Konto Historie", Action: "navigate:uebersicht/historie"},
			},
		}),
	})

	// Info and help carry no priority: they land after every explicitly
	// ordered menu, in registration order.
	builtin.MustRegister(builtin.Registration{
		ID: "plugin_homepage_menu_about",
		Contribute: staticMenu(menu.Item{
			Label: "Info",
			Items: []menu.Item{
				{Label: "Über Homepage", Action: "message:Dies ist die Startseite der Anwendung."},
			},
		}),
	})

	builtin.MustRegister(builtin.Registration{
		ID: "plugin_all_menu_help",
		Contribute: staticMenu(menu.Item{
			Label: "Hilfe",
			Items: []menu.Item{
				{Label: "Hilfe", Action: "message:Dies ist die globale Hilfe."},
			},
		}),
	})
}
