package app

import (
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/soliskit/pinto/internal/domain"
)

type Set map[domain.PeerID]struct{}

// RoomSnapshot is the membership of a room as seen by a joining peer:
// the members present before it arrived, never the peer itself.
type RoomSnapshot struct {
	Room          domain.RoomID   `json:"room"`
	Members       []domain.PeerID `json:"members"`
	AlreadyMember bool            `json:"-"`
}

// Vacated is a room a peer left together with who is still in it.
type Vacated struct {
	Room      domain.RoomID
	Remaining []domain.PeerID
}

type RoomInfo struct {
	Room        domain.RoomID `json:"room"`
	MemberCount int           `json:"member_count"`
}

// RoomDirectory maps rooms to member sets. A room exists only while it has members.
type RoomDirectory struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomID]Set
	byPeer map[domain.PeerID]map[domain.RoomID]struct{}
}

func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{
		rooms:  make(map[domain.RoomID]Set),
		byPeer: make(map[domain.PeerID]map[domain.RoomID]struct{}),
	}
}

// ValidateMembership rejects blank room or peer ids.
func ValidateMembership(room domain.RoomID, peer domain.PeerID) error {
	if room.Blank() {
		return domain.ErrMissingRoomID
	}
	if peer.Blank() {
		return domain.ErrMissingPeerID
	}
	return nil
}

func (d *RoomDirectory) Join(room domain.RoomID, peer domain.PeerID) (RoomSnapshot, error) {
	if err := ValidateMembership(room, peer); err != nil {
		return RoomSnapshot{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	members, ok := d.rooms[room]
	if !ok {
		members = make(Set)
		d.rooms[room] = members
	}
	_, already := members[peer]
	snap := RoomSnapshot{
		Room:          room,
		Members:       sorted(lo.Without(lo.Keys(members), peer)),
		AlreadyMember: already,
	}
	if already {
		return snap, nil
	}
	members[peer] = struct{}{}
	if d.byPeer[peer] == nil {
		d.byPeer[peer] = make(map[domain.RoomID]struct{})
	}
	d.byPeer[peer][room] = struct{}{}
	log.Info().Str("module", "app.rooms").Str("room", string(room)).Str("peer", string(peer)).Int("members", len(members)).Msg("peer joined room")
	return snap, nil
}

// Leave removes peer from room and returns the remaining members.
// ok is false when peer was not a member.
func (d *RoomDirectory) Leave(room domain.RoomID, peer domain.PeerID) ([]domain.PeerID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.leaveLocked(room, peer)
}

func (d *RoomDirectory) leaveLocked(room domain.RoomID, peer domain.PeerID) ([]domain.PeerID, bool) {
	members, ok := d.rooms[room]
	if !ok {
		return nil, false
	}
	if _, ok := members[peer]; !ok {
		return nil, false
	}
	delete(members, peer)
	if rooms := d.byPeer[peer]; rooms != nil {
		delete(rooms, room)
		if len(rooms) == 0 {
			delete(d.byPeer, peer)
		}
	}
	if len(members) == 0 {
		delete(d.rooms, room)
		log.Info().Str("module", "app.rooms").Str("room", string(room)).Msg("room emptied, deleted")
		return nil, true
	}
	log.Info().Str("module", "app.rooms").Str("room", string(room)).Str("peer", string(peer)).Msg("peer left room")
	return sorted(lo.Keys(members)), true
}

// LeaveAll removes peer from every room it is in.
func (d *RoomDirectory) LeaveAll(peer domain.PeerID) []Vacated {
	d.mu.Lock()
	defer d.mu.Unlock()
	rooms := sorted(lo.Keys(d.byPeer[peer]))
	out := make([]Vacated, 0, len(rooms))
	for _, room := range rooms {
		remaining, ok := d.leaveLocked(room, peer)
		if !ok {
			continue
		}
		out = append(out, Vacated{Room: room, Remaining: remaining})
	}
	return out
}

func (d *RoomDirectory) Members(room domain.RoomID) []domain.PeerID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return sorted(lo.Keys(d.rooms[room]))
}

func (d *RoomDirectory) IsMember(room domain.RoomID, peer domain.PeerID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[room][peer]
	return ok
}

func (d *RoomDirectory) RoomsOf(peer domain.PeerID) []domain.RoomID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return sorted(lo.Keys(d.byPeer[peer]))
}

func (d *RoomDirectory) List() []RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]RoomInfo, 0, len(d.rooms))
	for room, members := range d.rooms {
		out = append(out, RoomInfo{Room: room, MemberCount: len(members)})
	}
	slices.SortFunc(out, func(a, b RoomInfo) int {
		switch {
		case a.Room < b.Room:
			return -1
		case a.Room > b.Room:
			return 1
		}
		return 0
	})
	return out
}

func sorted[T ~string](in []T) []T {
	slices.Sort(in)
	return in
}
