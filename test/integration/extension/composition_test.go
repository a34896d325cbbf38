// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

//go:build integration

package extension_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/hausbuch/hausbuch/internal/extension"
	extlua "github.com/hausbuch/hausbuch/internal/extension/lua"
	"github.com/hausbuch/hausbuch/internal/window"
	"github.com/hausbuch/hausbuch/pkg/menu"
)

// newDiskEngine builds an engine over a single on-disk extension root with
// the Lua runtime, the configuration the engine ships with by default.
func newDiskEngine(root string) *extension.Engine {
	src, err := extension.NewDirSource(root, nil)
	Expect(err).NotTo(HaveOccurred())
	return extension.NewEngine(
		extension.WithSource(src),
		extension.WithHost(extlua.NewHost()),
	)
}

func writeUnit(root, id, code string) {
	Expect(os.WriteFile(filepath.Join(root, id+".lua"), []byte(code), 0o600)).To(Succeed())
}

func unitIDs(units []*extension.LoadedUnit) []string {
	ids := make([]string, 0, len(units))
	for _, u := range units {
		ids = append(ids, u.Name.ID())
	}
	return ids
}

var _ = Describe("Composition over a disk extension root", func() {
	var (
		root   string
		engine *extension.Engine
		ctx    context.Context
	)

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		ctx = context.Background()
	})

	AfterEach(func() {
		if engine != nil {
			Expect(engine.Close(ctx)).To(Succeed())
		}
	})

	Describe("activation order", func() {
		It("orders units by ascending priority with scan order breaking ties", func() {
			writeUnit(root, "plugin_homepage_menu_late", `priority = 50`)
			writeUnit(root, "plugin_homepage_menu_early", `priority = 1`)
			writeUnit(root, "plugin_homepage_menu_unranked_a", ``)
			writeUnit(root, "plugin_homepage_menu_unranked_b", ``)

			engine = newDiskEngine(root)
			units, err := engine.LoadPlugins(ctx, "menu", "homepage")
			Expect(err).NotTo(HaveOccurred())

			Expect(unitIDs(units)).To(Equal([]string{
				"plugin_homepage_menu_early",
				"plugin_homepage_menu_late",
				"plugin_homepage_menu_unranked_a",
				"plugin_homepage_menu_unranked_b",
			}))
		})

		It("interleaves universal and scoped units purely by priority", func() {
			writeUnit(root, "plugin_all_menu_global", `priority = 5`)
			writeUnit(root, "plugin_homepage_menu_local", `priority = 10`)

			engine = newDiskEngine(root)
			units, err := engine.LoadPlugins(ctx, "menu", "homepage")
			Expect(err).NotTo(HaveOccurred())

			Expect(unitIDs(units)).To(Equal([]string{
				"plugin_all_menu_global",
				"plugin_homepage_menu_local",
			}))
		})
	})

	Describe("scope and kind filtering", func() {
		BeforeEach(func() {
			writeUnit(root, "plugin_homepage_menu_account", `priority = 1`)
			writeUnit(root, "plugin_settings_menu_theme", `priority = 1`)
			writeUnit(root, "plugin_all_menu_help", ``)
			writeUnit(root, "plugin_homepage_toolbar_quick", `priority = 1`)
		})

		It("selects exact-scope and universal units of the requested kind", func() {
			engine = newDiskEngine(root)
			units, err := engine.LoadPlugins(ctx, "menu", "homepage")
			Expect(err).NotTo(HaveOccurred())

			Expect(unitIDs(units)).To(ConsistOf(
				"plugin_homepage_menu_account",
				"plugin_all_menu_help",
			))
		})

		It("returns an empty result for a scope nothing targets", func() {
			engine = newDiskEngine(root)
			units, err := engine.LoadPlugins(ctx, "toolbar", "settings")
			Expect(err).NotTo(HaveOccurred())
			Expect(units).To(BeEmpty())
		})
	})

	Describe("fault isolation", func() {
		It("drops a broken unit without affecting its siblings", func() {
			writeUnit(root, "plugin_homepage_menu_broken", `this is not lua`)
			writeUnit(root, "plugin_homepage_menu_fine", `priority = 1`)

			engine = newDiskEngine(root)
			units, err := engine.LoadPlugins(ctx, "menu", "homepage")
			Expect(err).NotTo(HaveOccurred())
			Expect(unitIDs(units)).To(Equal([]string{"plugin_homepage_menu_fine"}))
		})

		It("drops a unit whose top-level evaluation raises", func() {
			writeUnit(root, "plugin_homepage_menu_raises", `error("init exploded")`)
			writeUnit(root, "plugin_homepage_menu_fine", ``)

			engine = newDiskEngine(root)
			units, err := engine.LoadPlugins(ctx, "menu", "homepage")
			Expect(err).NotTo(HaveOccurred())
			Expect(unitIDs(units)).To(Equal([]string{"plugin_homepage_menu_fine"}))
		})

		It("fails the whole pass only when the root cannot be enumerated", func() {
			engine = newDiskEngine(filepath.Join(root, "missing"))
			_, err := engine.LoadPlugins(ctx, "menu", "homepage")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("rescan semantics", func() {
		It("sees units added and removed between passes", func() {
			writeUnit(root, "plugin_homepage_menu_a", ``)
			engine = newDiskEngine(root)

			units, err := engine.LoadPlugins(ctx, "menu", "homepage")
			Expect(err).NotTo(HaveOccurred())
			Expect(units).To(HaveLen(1))

			writeUnit(root, "plugin_homepage_menu_b", ``)
			units, err = engine.LoadPlugins(ctx, "menu", "homepage")
			Expect(err).NotTo(HaveOccurred())
			Expect(units).To(HaveLen(2))

			Expect(os.Remove(filepath.Join(root, "plugin_homepage_menu_a.lua"))).To(Succeed())
			units, err = engine.LoadPlugins(ctx, "menu", "homepage")
			Expect(err).NotTo(HaveOccurred())
			Expect(unitIDs(units)).To(Equal([]string{"plugin_homepage_menu_b"}))
		})

		It("returns identical results for repeated passes over unchanged state", func() {
			writeUnit(root, "plugin_homepage_menu_a", `priority = 2`)
			writeUnit(root, "plugin_homepage_menu_b", `priority = 2`)
			writeUnit(root, "plugin_all_menu_c", ``)

			engine = newDiskEngine(root)
			first, err := engine.LoadPlugins(ctx, "menu", "homepage")
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 3; i++ {
				again, err := engine.LoadPlugins(ctx, "menu", "homepage")
				Expect(err).NotTo(HaveOccurred())
				Expect(unitIDs(again)).To(Equal(unitIDs(first)))
			}
		})
	})

	Describe("window composition end to end", func() {
		It("builds a menu bar from contributing scripts in activation order", func() {
			writeUnit(root, "plugin_homepage_menu_second", `
priority = 20

function contribute(host)
	return { { label = "Zweites", action = "message:zwei" } }
end
`)
			writeUnit(root, "plugin_homepage_menu_first", `
priority = 10

function contribute(host)
	return { { label = "Erstes " .. host.scope, action = "message:eins" } }
end
`)

			engine = newDiskEngine(root)
			w, err := window.New(ctx, engine, "homepage")
			Expect(err).NotTo(HaveOccurred())

			bar := w.MenuBar()
			Expect(bar).To(HaveLen(2))
			Expect(bar[0].Label).To(Equal("Erstes homepage"))
			Expect(bar[1].Label).To(Equal("Zweites"))
		})

		It("keeps the window usable when a contribution fails at runtime", func() {
			writeUnit(root, "plugin_homepage_menu_crashy", `
function contribute(host)
	error("contribution exploded")
end
`)
			writeUnit(root, "plugin_homepage_menu_stable", `
function contribute(host)
	return { { label = "Stabil", action = "message:ok" } }
end
`)

			engine = newDiskEngine(root)
			w, err := window.New(ctx, engine, "homepage")
			Expect(err).NotTo(HaveOccurred())

			labels := make([]string, 0, len(w.MenuBar()))
			for _, it := range w.MenuBar() {
				labels = append(labels, it.Label)
			}
			Expect(labels).To(Equal([]string{"Stabil"}))
		})

		It("routes menu actions back through the window", func() {
			writeUnit(root, "plugin_homepage_menu_msg", `
function contribute(host)
	return { { label = "Gruss", action = "message:Guten Tag" } }
end
`)

			engine = newDiskEngine(root)
			w, err := window.New(ctx, engine, "homepage")
			Expect(err).NotTo(HaveOccurred())

			var item menu.Item
			Expect(w.MenuBar()).NotTo(BeEmpty())
			item = w.MenuBar()[0]
			Expect(w.Dispatch(item.Action)).To(Succeed())
			Expect(w.Messages()).To(Equal([]string{"Guten Tag"}))
		})
	})
})
