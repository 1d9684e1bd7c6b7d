package acl

import (
	"sort"
	"testing"

	"github.com/perimetra/tmacl/pkg/acl/store"
)

// fakeWorld is an in-memory stand-in for the database, implementing every
// store interface over plain maps.
type fakeWorld struct {
	classes     map[string]int64
	identities  map[ObjectIdentity]bool
	users       map[int64]string // party id -> login
	teams       map[int64][]int64
	grants      []fakeGrant
	groupIDs    map[string]int64
	groupMasks  map[string]map[string]int // group -> class -> mask bits
	authorities map[int64]map[string]bool
}

type fakeGrant struct {
	partyID  int64
	group    string
	class    string
	objectID int64
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		classes: map[string]int64{
			ClassProject:         1,
			ClassProjectTemplate: 2,
			ClassCampaign:        3,
		},
		identities:  make(map[ObjectIdentity]bool),
		users:       make(map[int64]string),
		teams:       make(map[int64][]int64),
		groupIDs:    map[string]int64{"acl.group.ProjectManager": 1, "acl.group.TestRunner": 2},
		groupMasks:  make(map[string]map[string]int),
		authorities: make(map[int64]map[string]bool),
	}
}

func (w *fakeWorld) bundle() store.Bundle {
	return store.Bundle{Identities: w, Grants: w, Parties: w, Authorities: w}
}

func (w *fakeWorld) partyExistsInWorld(partyID int64) bool {
	if _, ok := w.users[partyID]; ok {
		return true
	}
	_, ok := w.teams[partyID]
	return ok
}

// IdentityStore

func (w *fakeWorld) ClassID(class string) (int64, bool, error) {
	id, ok := w.classes[class]
	return id, ok, nil
}

func (w *fakeWorld) CreateIdentity(classID, objectID int64) error {
	for class, id := range w.classes {
		if id == classID {
			w.identities[ObjectIdentity{Class: class, ID: objectID}] = true
		}
	}
	return nil
}

func (w *fakeWorld) IdentityExists(class string, objectID int64) (bool, error) {
	return w.identities[ObjectIdentity{Class: class, ID: objectID}], nil
}

func (w *fakeWorld) DeleteIdentity(class string, objectID int64) error {
	delete(w.identities, ObjectIdentity{Class: class, ID: objectID})
	return w.DeleteGrantsForIdentity(class, objectID)
}

// GrantStore

func (w *fakeWorld) GroupID(qualifiedName string) (int64, bool, error) {
	id, ok := w.groupIDs[qualifiedName]
	return id, ok, nil
}

func (w *fakeWorld) DeleteGrant(partyID int64, class string, objectID int64) error {
	kept := w.grants[:0]
	for _, g := range w.grants {
		if g.partyID == partyID && g.class == class && g.objectID == objectID {
			continue
		}
		kept = append(kept, g)
	}
	w.grants = kept
	return nil
}

func (w *fakeWorld) InsertGrant(partyID, groupID int64, class string, objectID int64) error {
	for name, id := range w.groupIDs {
		if id == groupID {
			w.grants = append(w.grants, fakeGrant{partyID: partyID, group: name, class: class, objectID: objectID})
		}
	}
	return nil
}

func (w *fakeWorld) DeleteGrantsForIdentity(class string, objectID int64) error {
	kept := w.grants[:0]
	for _, g := range w.grants {
		if g.class == class && g.objectID == objectID {
			continue
		}
		kept = append(kept, g)
	}
	w.grants = kept
	return nil
}

func (w *fakeWorld) DeleteGrantsForParty(partyID int64) error {
	kept := w.grants[:0]
	for _, g := range w.grants {
		if g.partyID == partyID {
			continue
		}
		kept = append(kept, g)
	}
	w.grants = kept
	return nil
}

func (w *fakeWorld) GrantsForIdentity(class string, objectID int64) ([]store.Grant, error) {
	var out []store.Grant
	for _, g := range w.grants {
		if g.class == class && g.objectID == objectID {
			out = append(out, store.Grant{
				PartyID:  g.partyID,
				Group:    g.group,
				Class:    g.class,
				ObjectID: g.objectID,
				MaskBits: w.groupMasks[g.group][g.class],
			})
		}
	}
	return out, nil
}

func (w *fakeWorld) PartiesWithGrantsOn(class string, objectID int64) ([]int64, error) {
	seen := make(map[int64]struct{})
	var out []int64
	for _, g := range w.grants {
		if g.class == class && g.objectID == objectID {
			if _, ok := seen[g.partyID]; !ok {
				seen[g.partyID] = struct{}{}
				out = append(out, g.partyID)
			}
		}
	}
	return out, nil
}

func (w *fakeWorld) UserLoginsWithPermission(class string, objectIDs []int64, maskBit int) ([]string, error) {
	want := make(map[int64]struct{})
	for _, id := range objectIDs {
		want[id] = struct{}{}
	}
	logins := make(map[string]struct{})
	for _, g := range w.grants {
		if g.class != class {
			continue
		}
		if _, ok := want[g.objectID]; !ok {
			continue
		}
		if w.groupMasks[g.group][g.class]&maskBit == 0 {
			continue
		}
		if login, ok := w.users[g.partyID]; ok {
			logins[login] = struct{}{}
		}
		for _, member := range w.teams[g.partyID] {
			if login, ok := w.users[member]; ok {
				logins[login] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(logins))
	for l := range logins {
		out = append(out, l)
	}
	sort.Strings(out)
	return out, nil
}

func (w *fakeWorld) ObjectsWithoutPermission(partyID int64, class string) ([]int64, error) {
	granted := make(map[int64]struct{})
	for _, g := range w.grants {
		if g.partyID == partyID && g.class == class {
			granted[g.objectID] = struct{}{}
		}
	}
	var out []int64
	for oi := range w.identities {
		if oi.Class != class {
			continue
		}
		if _, ok := granted[oi.ID]; !ok {
			out = append(out, oi.ID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (w *fakeWorld) PartiesWithoutPermission(class string, objectID int64) ([]int64, error) {
	granted := make(map[int64]struct{})
	for _, g := range w.grants {
		if g.class == class && g.objectID == objectID {
			granted[g.partyID] = struct{}{}
		}
	}
	var out []int64
	for id := range w.users {
		if _, ok := granted[id]; !ok {
			out = append(out, id)
		}
	}
	for id := range w.teams {
		if _, ok := granted[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (w *fakeWorld) ClassGroupsForParty(partyID int64, class string) ([]store.ClassGroup, error) {
	var out []store.ClassGroup
	for _, g := range w.grants {
		if g.partyID == partyID && g.class == class {
			out = append(out, store.ClassGroup{ObjectID: g.objectID, Group: g.group})
		}
	}
	return out, nil
}

// PartyStore

func (w *fakeWorld) PartyExists(partyID int64) (bool, error) {
	return w.partyExistsInWorld(partyID), nil
}

func (w *fakeWorld) ExpandToUsers(partyIDs []int64) ([]int64, error) {
	seen := make(map[int64]struct{})
	var out []int64
	add := func(id int64) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range partyIDs {
		if _, ok := w.users[id]; ok {
			add(id)
		}
		for _, member := range w.teams[id] {
			add(member)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (w *fakeWorld) TeamsOf(userID int64) ([]int64, error) {
	var out []int64
	for teamID, members := range w.teams {
		for _, m := range members {
			if m == userID {
				out = append(out, teamID)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (w *fakeWorld) AllUserIDs() ([]int64, error) {
	var out []int64
	for id := range w.users {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// AuthorityStore

func (w *fakeWorld) RemoveAuthority(partyIDs []int64, authority string) error {
	for _, id := range partyIDs {
		delete(w.authorities[id], authority)
	}
	return nil
}

func (w *fakeWorld) InsertAuthority(partyIDs []int64, authority string) error {
	for _, id := range partyIDs {
		if w.authorities[id] == nil {
			w.authorities[id] = make(map[string]bool)
		}
		w.authorities[id][authority] = true
	}
	return nil
}

func (w *fakeWorld) HasAuthority(partyID int64, authority string) (bool, error) {
	return w.authorities[partyID][authority], nil
}

func (w *fakeWorld) holdsQualifyingGrant(partyID int64, classes []string, maskBit int) bool {
	for _, g := range w.grants {
		if g.partyID != partyID {
			continue
		}
		for _, class := range classes {
			if g.class == class && w.groupMasks[g.group][g.class]&maskBit != 0 {
				return true
			}
		}
	}
	return false
}

func (w *fakeWorld) DirectHolders(candidates []int64, classes []string, maskBit int) ([]int64, error) {
	var out []int64
	for _, id := range candidates {
		if w.holdsQualifyingGrant(id, classes, maskBit) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (w *fakeWorld) TeamHolders(candidates []int64, classes []string, maskBit int) ([]int64, error) {
	var out []int64
	for _, id := range candidates {
		teams, _ := w.TeamsOf(id)
		for _, teamID := range teams {
			if w.holdsQualifyingGrant(teamID, classes, maskBit) {
				out = append(out, id)
				break
			}
		}
	}
	return out, nil
}

// grantManagement wires up a MANAGEMENT-carrying group grant in the world.
func (w *fakeWorld) grantManagement(partyID int64, oi ObjectIdentity) {
	w.groupMasks["acl.group.ProjectManager"] = map[string]int{
		ClassProject:         MaskManagement.Bit() | MaskRead.Bit() | MaskWrite.Bit(),
		ClassProjectTemplate: MaskManagement.Bit() | MaskRead.Bit(),
	}
	w.identities[oi] = true
	w.grants = append(w.grants, fakeGrant{
		partyID: partyID, group: "acl.group.ProjectManager", class: oi.Class, objectID: oi.ID,
	})
}

func TestDirectManagementGrantDerivesAuthority(t *testing.T) {
	w := newFakeWorld()
	w.users[7] = "ulrich"
	project := NewObjectIdentity(ClassProject, 42)
	w.grantManagement(7, project)

	m := NewDerivedPermissionsManager()
	if err := m.UpdateForParty(w.bundle(), 7); err != nil {
		t.Fatalf("UpdateForParty() error = %v", err)
	}

	if !w.authorities[7][RoleProjectManager] {
		t.Error("user 7 should carry the project-manager authority")
	}
}

func TestGrantRevokeRoundTrip(t *testing.T) {
	w := newFakeWorld()
	w.users[7] = "ulrich"
	project := NewObjectIdentity(ClassProject, 42)
	w.grantManagement(7, project)

	m := NewDerivedPermissionsManager()
	if err := m.UpdateForParty(w.bundle(), 7); err != nil {
		t.Fatalf("UpdateForParty() error = %v", err)
	}
	if !w.authorities[7][RoleProjectManager] {
		t.Fatal("authority not derived after grant")
	}

	if err := w.DeleteGrant(7, project.Class, project.ID); err != nil {
		t.Fatal(err)
	}
	if err := m.UpdateForParty(w.bundle(), 7); err != nil {
		t.Fatalf("UpdateForParty() after revoke error = %v", err)
	}

	if w.authorities[7][RoleProjectManager] {
		t.Error("authority should be removed once the qualifying grant is gone")
	}
}

func TestTeamGrantPropagatesToMembersOnly(t *testing.T) {
	w := newFakeWorld()
	w.users[7] = "ulrich"
	w.users[8] = "vera"
	w.teams[100] = []int64{7}
	project := NewObjectIdentity(ClassProject, 42)
	w.grantManagement(100, project)

	m := NewDerivedPermissionsManager()
	if err := m.UpdateForParty(w.bundle(), 100); err != nil {
		t.Fatalf("UpdateForParty() error = %v", err)
	}

	if !w.authorities[7][RoleProjectManager] {
		t.Error("team member should inherit the derived authority")
	}
	if w.authorities[100][RoleProjectManager] {
		t.Error("the team itself should not carry the derived authority")
	}
	if w.authorities[8][RoleProjectManager] {
		t.Error("non-member should not inherit the derived authority")
	}
}

func TestNonProjectIdentityIsNoOp(t *testing.T) {
	w := newFakeWorld()
	w.users[7] = "ulrich"
	campaign := NewObjectIdentity(ClassCampaign, 5)
	w.identities[campaign] = true

	// Pre-plant an authority that a recompute would drop: a no-op must
	// leave it alone.
	w.authorities[7] = map[string]bool{RoleProjectManager: true}

	m := NewDerivedPermissionsManager()
	if err := m.UpdateForIdentity(w.bundle(), campaign); err != nil {
		t.Fatalf("UpdateForIdentity() error = %v", err)
	}

	if !w.authorities[7][RoleProjectManager] {
		t.Error("non-project identity must not trigger a recompute")
	}
}

func TestMissingIdentityTriggersFullRecompute(t *testing.T) {
	w := newFakeWorld()
	w.users[7] = "ulrich"
	w.users[8] = "vera"

	// Both users carry a stale authority with no backing grant; the
	// deleted identity can no longer name its former holders, so every
	// user must be re-evaluated.
	w.authorities[7] = map[string]bool{RoleProjectManager: true}
	w.authorities[8] = map[string]bool{RoleProjectManager: true}

	gone := NewObjectIdentity(ClassProject, 99)

	m := NewDerivedPermissionsManager()
	if err := m.UpdateForIdentity(w.bundle(), gone); err != nil {
		t.Fatalf("UpdateForIdentity() error = %v", err)
	}

	if w.authorities[7][RoleProjectManager] || w.authorities[8][RoleProjectManager] {
		t.Error("full-population recompute should drop stale authorities")
	}
}

func TestMissingPartyTriggersFullRecompute(t *testing.T) {
	w := newFakeWorld()
	w.users[7] = "ulrich"
	w.authorities[7] = map[string]bool{RoleProjectManager: true}

	m := NewDerivedPermissionsManager()
	if err := m.UpdateForParty(w.bundle(), 999); err != nil {
		t.Fatalf("UpdateForParty() error = %v", err)
	}

	if w.authorities[7][RoleProjectManager] {
		t.Error("recompute for a vanished party should re-evaluate everyone")
	}
}

func TestPairEntryPointDelegatesToParty(t *testing.T) {
	w := newFakeWorld()
	w.users[7] = "ulrich"
	project := NewObjectIdentity(ClassProject, 42)
	w.grantManagement(7, project)

	m := NewDerivedPermissionsManager()
	if err := m.UpdateForPair(w.bundle(), 7, NewObjectIdentity(ClassCampaign, 1)); err != nil {
		t.Fatalf("UpdateForPair() error = %v", err)
	}

	// The identity argument is accepted but unused: the recompute is
	// party-scoped, so the project grant still counts.
	if !w.authorities[7][RoleProjectManager] {
		t.Error("pair entry point should recompute for the party")
	}
}

func TestProjectTemplateQualifies(t *testing.T) {
	w := newFakeWorld()
	w.users[7] = "ulrich"
	template := NewObjectIdentity(ClassProjectTemplate, 3)
	w.grantManagement(7, template)

	m := NewDerivedPermissionsManager()
	if err := m.UpdateForIdentity(w.bundle(), template); err != nil {
		t.Fatalf("UpdateForIdentity() error = %v", err)
	}

	if !w.authorities[7][RoleProjectManager] {
		t.Error("MANAGEMENT on a project template should derive the authority")
	}
}
