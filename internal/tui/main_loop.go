// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/vm-console/internal/cache"
	"github.com/MKhiriev/vm-console/internal/channel"
	"github.com/MKhiriev/vm-console/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mainLoopModel struct {
	ctx      context.Context
	cache    *cache.Controller
	channel  *channel.Channel
	identity models.Identity

	page       int
	totalPages int
	search     string
	items      []models.VM
	state      cache.Freshness
	idx        int
	loading    bool

	searching   bool
	searchInput textinput.Model

	detail        bool
	formActive    bool
	form          vmFormModel
	confirmDelete bool
	pendingDelete models.VM

	status string
	errMsg string
	logout bool
}

func newMainLoopModel(ctx context.Context, cacheController *cache.Controller, pushChannel *channel.Channel, identity models.Identity) mainLoopModel {
	searchInput := textinput.New()
	searchInput.Placeholder = "name contains..."
	searchInput.CharLimit = 64
	searchInput.Width = 40

	return mainLoopModel{
		ctx:         ctx,
		cache:       cacheController,
		channel:     pushChannel,
		identity:    identity,
		page:        1,
		loading:     true,
		searchInput: searchInput,
	}
}

func (m mainLoopModel) Init() tea.Cmd {
	return m.cmdLoadPage(m.page, m.search)
}

func (m mainLoopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		m.loading = false
		m.applySnapshot(msg.snap)
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
		} else {
			m.errMsg = ""
		}
		return m, nil

	case vmSavedMsg:
		m.form.submitting = false
		if msg.err != nil {
			m.form.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.formActive = false
		m.detail = false
		m.status = "Saved " + msg.vm.Name
		m.loading = true
		return m, tea.Batch(m.cmdLoadPage(m.page, m.search), cmdClearStatus())

	case vmDeletedMsg:
		m.confirmDelete = false
		m.pendingDelete = models.VM{}
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.detail = false
		m.status = "Deleted " + msg.vm.Name
		m.loading = true
		return m, tea.Batch(m.cmdLoadPage(m.page, m.search), cmdClearStatus())

	case pushEventMsg:
		// The controller already invalidated its pages; re-read so the
		// table reflects post-event state.
		m.status = pushToast(msg.event)
		return m, tea.Batch(m.cmdLoadPage(m.page, m.search), cmdClearStatus())

	case copiedMsg:
		m.status = "Copied to clipboard"
		return m, cmdClearStatus()

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.formActive {
			return m.updateFormInput(msg)
		}
		if m.searching {
			return m.updateSearchInput(msg)
		}
		return m, nil
	}

	if keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch {
	case m.formActive:
		return m.updateForm(keyMsg)
	case m.searching:
		return m.updateSearch(keyMsg)
	case m.confirmDelete:
		return m.updateConfirm(keyMsg)
	case m.detail:
		return m.updateDetail(keyMsg)
	}
	return m.updateList(keyMsg)
}

func (m *mainLoopModel) applySnapshot(snap cache.Snapshot) {
	m.items = snap.Items
	m.totalPages = snap.TotalPages
	m.state = snap.State
	if m.idx >= len(m.items) {
		m.idx = len(m.items) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

func (m mainLoopModel) updateList(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.idx > 0 {
			m.idx--
		}
	case "down", "j":
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case "left", "h":
		if m.page > 1 {
			m.page--
			m.loading = true
			return m, m.cmdLoadPage(m.page, m.search)
		}
	case "right", "l":
		if m.totalPages == 0 || m.page < m.totalPages {
			m.page++
			m.loading = true
			return m, m.cmdLoadPage(m.page, m.search)
		}
	case "/":
		m.searching = true
		m.searchInput.SetValue(m.search)
		m.searchInput.Focus()
		return m, textinput.Blink
	case "r":
		m.loading = true
		return m, m.cmdRefresh(m.page, m.search)
	case "enter":
		if _, ok := m.current(); ok {
			m.detail = true
		}
	case "n":
		if !m.requireAdmin() {
			return m, cmdClearStatus()
		}
		m.form = newCreateForm()
		m.formActive = true
		return m, textinput.Blink
	case "e":
		vm, ok := m.current()
		if !ok {
			return m, nil
		}
		if !m.requireAdmin() {
			return m, cmdClearStatus()
		}
		m.form = newEditForm(vm)
		m.formActive = true
		return m, textinput.Blink
	case "ctrl+d":
		vm, ok := m.current()
		if !ok {
			return m, nil
		}
		if !m.requireAdmin() {
			return m, cmdClearStatus()
		}
		m.confirmDelete = true
		m.pendingDelete = vm
	case "ctrl+l":
		m.logout = true
		return m, tea.Quit
	}
	return m, nil
}

func (m mainLoopModel) updateDetail(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vm, ok := m.current()
	if !ok {
		m.detail = false
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "q":
		m.detail = false
	case "e":
		if !m.requireAdmin() {
			return m, cmdClearStatus()
		}
		m.form = newEditForm(vm)
		m.formActive = true
		return m, textinput.Blink
	case "ctrl+d":
		if !m.requireAdmin() {
			return m, cmdClearStatus()
		}
		m.confirmDelete = true
		m.pendingDelete = vm
	case "c":
		return m, cmdCopyToClipboard(vm.ID)
	}
	return m, nil
}

func (m mainLoopModel) updateConfirm(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "y":
		m.confirmDelete = false
		return m, m.cmdDelete(m.pendingDelete)
	case "n", "esc":
		m.confirmDelete = false
		m.pendingDelete = models.VM{}
	}
	return m, nil
}

func (m mainLoopModel) updateSearch(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "enter":
		// a new search term always starts from the first page
		m.search = strings.TrimSpace(m.searchInput.Value())
		m.searching = false
		m.searchInput.Blur()
		m.page = 1
		m.idx = 0
		m.loading = true
		return m, m.cmdLoadPage(m.page, m.search)
	}
	return m.updateSearchInput(keyMsg)
}

func (m mainLoopModel) updateSearchInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m mainLoopModel) updateForm(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "esc":
		m.formActive = false
		return m, nil
	case "tab":
		m.form.focusNext()
		return m, nil
	case "shift+tab":
		m.form.focusPrev()
		return m, nil
	case "ctrl+s":
		m.form.cycleStatus()
		return m, nil
	case "enter":
		if m.form.submitting {
			return m, nil
		}
		if m.form.editing {
			patch, changed, err := m.form.patch()
			if err != nil {
				m.form.errMsg = err.Error()
				return m, nil
			}
			if !changed {
				m.formActive = false
				return m, nil
			}
			m.form.errMsg = ""
			m.form.submitting = true
			return m, m.cmdUpdate(m.form.original.ID, patch)
		}

		fields, err := m.form.fields()
		if err != nil {
			m.form.errMsg = err.Error()
			return m, nil
		}
		m.form.errMsg = ""
		m.form.submitting = true
		return m, m.cmdCreate(fields)
	}
	return m.updateFormInput(keyMsg)
}

func (m mainLoopModel) updateFormInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

// requireAdmin flashes a status message for viewer-role users instead of
// opening a mutation surface.
func (m *mainLoopModel) requireAdmin() bool {
	if m.identity.IsAdmin() {
		return true
	}
	m.status = "This action requires administrator rights"
	return false
}

func (m mainLoopModel) current() (models.VM, bool) {
	if len(m.items) == 0 || m.idx < 0 || m.idx >= len(m.items) {
		return models.VM{}, false
	}
	return m.items[m.idx], true
}

// ── views ────────────────────────────────────────────────────────────────────

func (m mainLoopModel) View() string {
	if m.formActive {
		title := "NEW MACHINE"
		if m.form.editing {
			title = "EDIT " + m.form.original.Name
		}
		return renderPage(title, m.form.view(), "tab: next field │ ctrl+s: cycle status │ enter: save │ esc: cancel")
	}

	if m.confirmDelete {
		body := fmt.Sprintf("Delete %s (%s)?\n\nThis cannot be undone.", m.pendingDelete.Name, m.pendingDelete.ID)
		return renderPage("CONFIRM DELETE", body, "y: delete │ n/esc: cancel")
	}

	if m.detail {
		if vm, ok := m.current(); ok {
			return renderPage("MACHINE: "+vm.Name, m.viewDetail(vm), m.detailHotKeys())
		}
	}

	return renderPage("VM INVENTORY", m.viewList(), m.listHotKeys())
}

func (m mainLoopModel) viewList() string {
	var b strings.Builder

	header := fmt.Sprintf("Signed in as %s (%s)  │  push: %s", m.identity.Email, m.identity.Role, m.channel.Status())
	b.WriteString(helpStyle.Render(header))
	b.WriteString("\n")

	if m.search != "" {
		b.WriteString("Filter: " + m.search + "\n")
	}
	if m.searching {
		b.WriteString("Search: [" + m.searchInput.View() + "]\n")
	}
	b.WriteString("\n")

	if m.loading && len(m.items) == 0 {
		b.WriteString("Loading inventory...\n")
		return strings.TrimRight(b.String(), "\n")
	}

	if len(m.items) == 0 {
		b.WriteString("No machines found\n")
	} else {
		b.WriteString("  Name                     │ Status   │ Resources    │ OS\n")
		b.WriteString("───────────────────────────┼──────────┼──────────────┼─────────────────\n")
		for i, vm := range m.items {
			cursor := " "
			if i == m.idx {
				cursor = ">"
			}
			line := fmt.Sprintf("%s %-24s │ %-8s │ %-12s │ %s",
				cursor,
				fitText(vm.Name, 24),
				vm.Status,
				formatResources(vm.Cores, vm.RAMGb, vm.DiskGb),
				fitText(vm.OS, 16),
			)
			if m.state == cache.Stale {
				line = staleStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Page %d/%d", m.page, max(m.totalPages, 1)))
	if m.state == cache.Stale {
		b.WriteString(staleStyle.Render("  (stale)"))
	}
	if m.loading {
		b.WriteString("  refreshing...")
	}
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m mainLoopModel) viewDetail(vm models.VM) string {
	var b strings.Builder
	b.WriteString("ID        │ " + vm.ID + "\n")
	b.WriteString("Name      │ " + vm.Name + "\n")
	b.WriteString("Status    │ " + string(vm.Status) + "\n")
	b.WriteString("Cores     │ " + fmt.Sprintf("%d", vm.Cores) + "\n")
	b.WriteString("RAM       │ " + fmt.Sprintf("%d GB", vm.RAMGb) + "\n")
	b.WriteString("Disk      │ " + fmt.Sprintf("%d GB", vm.DiskGb) + "\n")
	b.WriteString("OS        │ " + vm.OS + "\n")
	b.WriteString("Created   │ " + vm.CreatedAt.Format(time.RFC3339) + "\n")
	b.WriteString("Updated   │ " + vm.UpdatedAt.Format(time.RFC3339) + "\n")

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m mainLoopModel) listHotKeys() string {
	if m.identity.IsAdmin() {
		return "n: new │ e: edit │ ctrl+d: delete │ enter: open │ /: search │ ←/→: page │ r: refresh │ ctrl+l: logout │ q: quit"
	}
	return "enter: open │ /: search │ ←/→: page │ r: refresh │ ctrl+l: logout │ q: quit"
}

func (m mainLoopModel) detailHotKeys() string {
	if m.identity.IsAdmin() {
		return "e: edit │ ctrl+d: delete │ c: copy id │ esc: back"
	}
	return "c: copy id │ esc: back"
}

// ── commands ─────────────────────────────────────────────────────────────────

func (m mainLoopModel) cmdLoadPage(page int, search string) tea.Cmd {
	ctx := m.ctx
	controller := m.cache

	return func() tea.Msg {
		snap, err := controller.GetPage(ctx, page, search)
		return pageLoadedMsg{snap: snap, err: err}
	}
}

func (m mainLoopModel) cmdRefresh(page int, search string) tea.Cmd {
	ctx := m.ctx
	controller := m.cache

	return func() tea.Msg {
		snap, err := controller.Refresh(ctx, page, search)
		return pageLoadedMsg{snap: snap, err: err}
	}
}

func (m mainLoopModel) cmdCreate(fields models.VMFields) tea.Cmd {
	ctx := m.ctx
	controller := m.cache

	return func() tea.Msg {
		mutator, err := controller.Mutator()
		if err != nil {
			return vmSavedMsg{err: err}
		}
		vm, err := mutator.Create(ctx, fields)
		return vmSavedMsg{vm: vm, err: err}
	}
}

func (m mainLoopModel) cmdUpdate(id string, patch models.VMPatch) tea.Cmd {
	ctx := m.ctx
	controller := m.cache

	return func() tea.Msg {
		mutator, err := controller.Mutator()
		if err != nil {
			return vmSavedMsg{err: err}
		}
		vm, err := mutator.Update(ctx, id, patch)
		return vmSavedMsg{vm: vm, err: err}
	}
}

func (m mainLoopModel) cmdDelete(vm models.VM) tea.Cmd {
	ctx := m.ctx
	controller := m.cache

	return func() tea.Msg {
		mutator, err := controller.Mutator()
		if err != nil {
			return vmDeletedMsg{err: err}
		}
		deleted, err := mutator.Delete(ctx, vm.ID)
		if err != nil {
			return vmDeletedMsg{err: err}
		}
		return vmDeletedMsg{vm: deleted}
	}
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return clearStatusMsg{}
		}
		return copiedMsg{}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func pushToast(event channel.Event) string {
	name := event.Record.Name
	if name == "" {
		name = event.Record.ID
	}
	switch event.Kind {
	case channel.KindCreated:
		return fmt.Sprintf("%s was created elsewhere", name)
	case channel.KindUpdated:
		return fmt.Sprintf("%s was updated elsewhere", name)
	case channel.KindDeleted:
		return fmt.Sprintf("%s was deleted elsewhere", name)
	}
	return "Inventory changed elsewhere"
}
