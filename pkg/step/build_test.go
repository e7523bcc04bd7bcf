package step

import (
	"context"
	"testing"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_TextMessage(t *testing.T) {
	spec := agentspec.Step{Kind: agentspec.KindTextMessage, Hold: true, Config: &agentspec.TextMessageConfig{Message: "hi {{name}}"}}
	built, err := Build("greet", spec, Deps{}, nil, nil)
	require.NoError(t, err)

	tm, ok := built.(*TextMessage)
	require.True(t, ok)
	assert.Equal(t, "greet", tm.ID())
	assert.Equal(t, StatusWaitingForInput, tm.Finish())
}

func TestBuild_MessageGenerator_MissingDependency(t *testing.T) {
	spec := agentspec.Step{Kind: agentspec.KindMessageGenerator, Config: &agentspec.MessageGeneratorConfig{}}
	_, err := Build("gen", spec, Deps{}, nil, nil)
	require.Error(t, err)
}

func TestBuild_MessageGenerator_ResolvesToolsFromCatalog(t *testing.T) {
	catalog := map[string]agentspec.ToolConfig{
		"lookup_order": {Name: "lookup_order", Description: "looks up an order"},
	}
	spec := agentspec.Step{
		Kind:   agentspec.KindMessageGenerator,
		Config: &agentspec.MessageGeneratorConfig{ToolChoice: "auto", Tools: []string{"lookup_order"}},
	}
	built, err := Build("gen", spec, Deps{Generator: fakeGenerator{}}, catalog, nil)
	require.NoError(t, err)

	mg, ok := built.(*MessageGenerator)
	require.True(t, ok)
	assert.Equal(t, "gen", mg.ID())
}

func TestBuild_MessageGenerator_UnknownToolFails(t *testing.T) {
	spec := agentspec.Step{
		Kind:   agentspec.KindMessageGenerator,
		Config: &agentspec.MessageGeneratorConfig{Tools: []string{"not-in-catalog"}},
	}
	_, err := Build("gen", spec, Deps{Generator: fakeGenerator{}}, nil, nil)
	require.ErrorIs(t, err, ErrUnknownTool)
}

func TestBuild_Counter(t *testing.T) {
	spec := agentspec.Step{Kind: agentspec.KindCounter, Config: &agentspec.CounterConfig{Slot: "attempts", Delta: 2}}
	built, err := Build("tally", spec, Deps{}, nil, nil)
	require.NoError(t, err)
	_, ok := built.(*Counter)
	assert.True(t, ok)
}

func TestBuild_GoTo(t *testing.T) {
	spec := agentspec.Step{Kind: agentspec.KindGoTo, Config: &agentspec.GoToConfig{Target: "next-step"}}
	built, err := Build("jump", spec, Deps{}, nil, nil)
	require.NoError(t, err)
	resp, err := built.Execute(context.Background(), ExecCtx{})
	require.NoError(t, err)
	assert.Equal(t, "next-step", resp.NextStep)
}

func TestBuild_Combined_BuildsSubStepsAndPropagatesToolCatalog(t *testing.T) {
	catalog := map[string]agentspec.ToolConfig{"lookup_order": {Name: "lookup_order"}}
	spec := agentspec.Step{
		Kind: agentspec.KindCombined,
		Config: &agentspec.CombinedConfig{Steps: []agentspec.Step{
			{Kind: agentspec.KindTextMessage, Config: &agentspec.TextMessageConfig{Message: "hi"}},
			{Kind: agentspec.KindMessageGenerator, Config: &agentspec.MessageGeneratorConfig{Tools: []string{"lookup_order"}}},
		}},
	}
	built, err := Build("group", spec, Deps{Generator: fakeGenerator{}}, catalog, nil)
	require.NoError(t, err)

	combined, ok := built.(*Combined)
	require.True(t, ok)
	assert.Equal(t, "group.0", combined.steps[0].ID())
	assert.Equal(t, "group.1", combined.steps[1].ID())
}

func TestBuild_Validator_WiresGoalsAndDefaultsResultSlotToName(t *testing.T) {
	spec := agentspec.Step{
		Kind: agentspec.KindValidator,
		Config: &agentspec.ValidatorConfig{Goals: []agentspec.ValidatorGoalConfig{
			{Name: "has_name", Criterion: "has the user given their name?", OnFail: "ask-name"},
		}},
	}
	built, err := Build("check", spec, Deps{ValidationTool: fakeValidationTool{result: false}}, nil, nil)
	require.NoError(t, err)

	v, ok := built.(*Validator)
	require.True(t, ok)
	require.Len(t, v.goals, 1)
	assert.Equal(t, "has_name", v.goals[0].ResultSlot.Name)
	assert.Equal(t, "ask-name", v.goals[0].OnFail)

	resp, err := v.Execute(context.Background(), ExecCtx{})
	require.NoError(t, err)
	assert.Equal(t, "ask-name", resp.NextStep)
}

func TestBuild_Validator_MissingDependency(t *testing.T) {
	spec := agentspec.Step{Kind: agentspec.KindValidator, Config: &agentspec.ValidatorConfig{}}
	_, err := Build("check", spec, Deps{}, nil, nil)
	require.Error(t, err)
}

func TestBuild_UnknownKind(t *testing.T) {
	spec := agentspec.Step{Kind: agentspec.Kind("not-a-real-kind")}
	_, err := Build("x", spec, Deps{}, nil, nil)
	require.ErrorIs(t, err, agentspec.ErrUnknownStepKind)
}

type fakeGenerator struct{}

func (fakeGenerator) Stream(context.Context, ExecCtx, GenerateOptions) (<-chan string, error) {
	ch := make(chan string)
	close(ch)
	return ch, nil
}
