package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
)

// Request is one client command. Pin is the current parent PIN and is
// only checked for parent actions.
type Request struct {
	ID      string          `json:"id,omitempty"`
	Action  string          `json:"action"`
	Pin     string          `json:"pin,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Reply answers a Request. Rejected marks a refused action as opposed to
// a malformed request or a storage failure.
type Reply struct {
	ID       string `json:"id,omitempty"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
	Rejected bool   `json:"rejected,omitempty"`
	Data     any    `json:"data,omitempty"`
}

// ErrUnknownAction is returned for an action name with no handler.
var ErrUnknownAction = errors.New("unknown action")

type handler func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error)

type idPayload struct {
	ID string `json:"id"`
}

type stepPayload struct {
	TaskID string `json:"taskId"`
	StepID string `json:"stepId"`
}

type evidencePayload struct {
	ID           string              `json:"id"`
	EvidenceURL  string              `json:"evidenceUrl"`
	EvidenceType engine.EvidenceType `json:"evidenceType"`
}

type reviewPayload struct {
	ID       string `json:"id"`
	Feedback string `json:"feedback"`
}

type blockPayload struct {
	RewardID string `json:"rewardId"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

type adjustPayload struct {
	Amount int    `json:"amount"`
	Kind   string `json:"kind"`
}

type settingsPayload struct {
	ParentPin  string       `json:"parentPin"`
	FamilyName string       `json:"familyName"`
	Rules      engine.Rules `json:"rules"`
}

type pinPayload struct {
	Pin string `json:"pin"`
}

type messagePayload struct {
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

type senderPayload struct {
	Sender string `json:"sender"`
}

type goalPayload struct {
	Title  string `json:"title"`
	Target int    `json:"target"`
}

func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("bad payload: %w", err)
	}
	return v, nil
}

var handlers = map[string]handler{
	"snapshot": func(ctx context.Context, svc *engine.Service, _ json.RawMessage) (any, error) {
		snap, err := svc.Snapshot(ctx)
		return snap.Redacted(), err
	},
	"create_world": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		in, err := decode[engine.CreateWorldInput](raw)
		if err != nil {
			return nil, err
		}
		created, err := svc.CreateWorld(ctx, in)
		return map[string]bool{"created": created}, err
	},
	"add_task": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		in, err := decode[engine.AddTaskInput](raw)
		if err != nil {
			return nil, err
		}
		return svc.AddTask(ctx, in)
	},
	"delete_task": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		p, err := decode[idPayload](raw)
		if err != nil {
			return nil, err
		}
		return nil, svc.DeleteTask(ctx, p.ID)
	},
	"update_tasks": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		tasks, err := decode[[]engine.Task](raw)
		if err != nil {
			return nil, err
		}
		return nil, svc.UpdateTasks(ctx, tasks)
	},
	"start_task": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		p, err := decode[idPayload](raw)
		if err != nil {
			return nil, err
		}
		return svc.StartTask(ctx, p.ID)
	},
	"toggle_step": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		p, err := decode[stepPayload](raw)
		if err != nil {
			return nil, err
		}
		return svc.ToggleStep(ctx, p.TaskID, p.StepID)
	},
	"submit_evidence": submitEvidence,
	"complete_task":   submitEvidence,
	"approve_task": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		p, err := decode[reviewPayload](raw)
		if err != nil {
			return nil, err
		}
		return svc.ApproveTask(ctx, p.ID, p.Feedback)
	},
	"reject_task": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		p, err := decode[reviewPayload](raw)
		if err != nil {
			return nil, err
		}
		return svc.RejectTask(ctx, p.ID, p.Feedback)
	},
	"buy_reward": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		p, err := decode[idPayload](raw)
		if err != nil {
			return nil, err
		}
		return svc.BuyReward(ctx, p.ID)
	},
	"place_block": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		p, err := decode[blockPayload](raw)
		if err != nil {
			return nil, err
		}
		return nil, svc.PlaceBlock(ctx, p.RewardID, p.X, p.Y)
	},
	"fill_blocks": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		p, err := decode[blockPayload](raw)
		if err != nil {
			return nil, err
		}
		n, err := svc.FillBlocks(ctx, p.RewardID, p.X, p.Y)
		return map[string]int{"placed": n}, err
	},
	"erase_block": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		p, err := decode[blockPayload](raw)
		if err != nil {
			return nil, err
		}
		removed, err := svc.EraseBlock(ctx, p.X, p.Y)
		return map[string]bool{"removed": removed}, err
	},
	"clear_canvas": func(ctx context.Context, svc *engine.Service, _ json.RawMessage) (any, error) {
		return nil, svc.ClearCanvas(ctx)
	},
	"adjust_currency": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		p, err := decode[adjustPayload](raw)
		if err != nil {
			return nil, err
		}
		kind, err := engine.ParseAdjustKind(p.Kind)
		if err != nil {
			return nil, err
		}
		return svc.AdjustCurrency(ctx, p.Amount, kind)
	},
	"update_profile": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		patch, err := decode[engine.ProfilePatch](raw)
		if err != nil {
			return nil, err
		}
		return svc.UpdateProfile(ctx, patch)
	},
	"add_reward": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		in, err := decode[engine.AddRewardInput](raw)
		if err != nil {
			return nil, err
		}
		return svc.AddReward(ctx, in)
	},
	"delete_reward": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		p, err := decode[idPayload](raw)
		if err != nil {
			return nil, err
		}
		return nil, svc.DeleteReward(ctx, p.ID)
	},
	"update_settings": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		p, err := decode[settingsPayload](raw)
		if err != nil {
			return nil, err
		}
		st, err := svc.UpdateSettings(ctx, p.ParentPin, p.FamilyName, p.Rules)
		return st.Redacted(), err
	},
	"check_pin": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		p, err := decode[pinPayload](raw)
		if err != nil {
			return nil, err
		}
		return nil, svc.CheckPin(ctx, p.Pin)
	},
	"send_message": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		p, err := decode[messagePayload](raw)
		if err != nil {
			return nil, err
		}
		from, err := engine.ParseSender(p.Sender)
		if err != nil {
			return nil, err
		}
		return svc.SendMessage(ctx, p.Text, from)
	},
	"mark_messages_read": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		p, err := decode[senderPayload](raw)
		if err != nil {
			return nil, err
		}
		from, err := engine.ParseSender(p.Sender)
		if err != nil {
			return nil, err
		}
		n, err := svc.MarkMessagesRead(ctx, from)
		return map[string]int{"marked": n}, err
	},
	"update_goal": func(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
		p, err := decode[goalPayload](raw)
		if err != nil {
			return nil, err
		}
		return svc.UpdateGoal(ctx, p.Title, p.Target)
	},
}

func submitEvidence(ctx context.Context, svc *engine.Service, raw json.RawMessage) (any, error) {
	p, err := decode[evidencePayload](raw)
	if err != nil {
		return nil, err
	}
	return svc.SubmitEvidence(ctx, p.ID, p.EvidenceURL, p.EvidenceType)
}

// parentActions need the parent PIN on the request, like the CLI's
// parent commands.
var parentActions = map[string]bool{
	"add_task":        true,
	"delete_task":     true,
	"update_tasks":    true,
	"approve_task":    true,
	"reject_task":     true,
	"adjust_currency": true,
	"update_profile":  true,
	"add_reward":      true,
	"delete_reward":   true,
	"update_settings": true,
	"update_goal":     true,
}

func needsParent(req Request) bool {
	if parentActions[req.Action] {
		return true
	}
	if req.Action == "send_message" {
		p, err := decode[messagePayload](req.Payload)
		if err != nil {
			return false
		}
		from, err := engine.ParseSender(p.Sender)
		return err == nil && from == engine.SenderMaster
	}
	return false
}

// Actions lists the action names a client may send.
func Actions() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs req against svc and builds the reply.
func Dispatch(ctx context.Context, svc *engine.Service, req Request) Reply {
	reply := Reply{ID: req.ID}
	h, ok := handlers[req.Action]
	if !ok {
		reply.Error = fmt.Sprintf("%v: %q", ErrUnknownAction, req.Action)
		return reply
	}
	if needsParent(req) {
		if err := svc.CheckPin(ctx, req.Pin); err != nil {
			reply.Error = err.Error()
			reply.Rejected = engine.IsRejection(err)
			return reply
		}
	}
	data, err := h(ctx, svc, req.Payload)
	if err != nil {
		reply.Error = err.Error()
		reply.Rejected = engine.IsRejection(err)
		return reply
	}
	reply.OK = true
	reply.Data = data
	return reply
}
