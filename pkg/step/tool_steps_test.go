package step

import (
	"context"
	"testing"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/codeready-toolchain/hikari/pkg/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValidationTool struct {
	result bool
	err    error
}

func (f fakeValidationTool) Validate(context.Context, ExecCtx, string, string) (bool, error) {
	return f.result, f.err
}

func TestValidator_Execute_WritesBooleanResult(t *testing.T) {
	goals := []ValidatorGoal{{Name: "done", Criterion: "is the user done?", ResultSlot: SlotPath{Name: "done"}}}
	v := NewValidator("check", fakeValidationTool{result: true}, goals, nil)
	resp, err := v.Execute(context.Background(), ExecCtx{})
	require.NoError(t, err)
	assert.Equal(t, "true", resp.Writes[0].Value)
	assert.False(t, resp.HasNext)

	v = NewValidator("check", fakeValidationTool{result: false}, goals, nil)
	resp, err = v.Execute(context.Background(), ExecCtx{})
	require.NoError(t, err)
	assert.Equal(t, "false", resp.Writes[0].Value)
}

func TestValidator_Execute_BranchesToOnFailWhenGoalFails(t *testing.T) {
	goals := []ValidatorGoal{{Name: "has_name", Criterion: "has the user given their name?", OnFail: "ask-name", ResultSlot: SlotPath{Name: "has_name"}}}
	v := NewValidator("check", fakeValidationTool{result: false}, goals, nil)
	resp, err := v.Execute(context.Background(), ExecCtx{})
	require.NoError(t, err)
	assert.Equal(t, "false", resp.Writes[0].Value)
	assert.True(t, resp.HasNext)
	assert.Equal(t, "ask-name", resp.NextStep)
}

func TestValidator_Execute_FirstFailingGoalWinsTieBreak(t *testing.T) {
	tool := sequencedValidationTool{results: []bool{false, false}}
	goals := []ValidatorGoal{
		{Name: "has_name", Criterion: "has name?", OnFail: "ask-name", ResultSlot: SlotPath{Name: "has_name"}},
		{Name: "has_email", Criterion: "has email?", OnFail: "ask-email", ResultSlot: SlotPath{Name: "has_email"}},
	}
	v := NewValidator("check", &tool, goals, nil)
	resp, err := v.Execute(context.Background(), ExecCtx{})
	require.NoError(t, err)
	require.Len(t, resp.Writes, 2)
	assert.Equal(t, "ask-name", resp.NextStep)
}

func TestValidator_AddPreviousResponse_CarriesIntoValidate(t *testing.T) {
	seen := ""
	tool := captureValidationTool{onValidate: func(_ string, previousResponse string) { seen = previousResponse }}
	goals := []ValidatorGoal{{Name: "done", Criterion: "criterion", ResultSlot: SlotPath{Name: "done"}}}
	v := NewValidator("check", tool, goals, nil)
	v.AddPreviousResponse("the user confirmed they are finished")

	_, err := v.Execute(context.Background(), ExecCtx{})
	require.NoError(t, err)
	assert.Equal(t, "the user confirmed they are finished", seen)
}

type sequencedValidationTool struct {
	results []bool
	calls   int
}

func (s *sequencedValidationTool) Validate(context.Context, ExecCtx, string, string) (bool, error) {
	r := s.results[s.calls]
	s.calls++
	return r, nil
}

type captureValidationTool struct {
	onValidate func(criterion, previousResponse string)
}

func (c captureValidationTool) Validate(_ context.Context, _ ExecCtx, criterion, previousResponse string) (bool, error) {
	c.onValidate(criterion, previousResponse)
	return true, nil
}

type fakeExtractionTool struct {
	value any
}

func (f fakeExtractionTool) Extract(context.Context, ExecCtx, string, string, []agentspec.OpenApiField) (any, error) {
	return f.value, nil
}

func TestExtractor_Execute_EncodesResultBeforeWriting(t *testing.T) {
	e := NewExtractor("pull", fakeExtractionTool{value: 42}, "extract the age", SlotPath{Name: "age"}, nil, nil)
	resp, err := e.Execute(context.Background(), ExecCtx{})
	require.NoError(t, err)
	assert.Equal(t, "42", resp.Writes[0].Value)
}

type fakeSummarizerTool struct {
	summary string
}

func (f fakeSummarizerTool) Summarize(context.Context, ExecCtx, int) (string, error) {
	return f.summary, nil
}

func TestConversationSummarizer_Execute_ReplaceOverwrites(t *testing.T) {
	ec := newTestExecCtx(t)
	require.NoError(t, ec.Store.Put(context.Background(), ec.ConversationKey(), "summary", "old summary"))

	s := NewConversationSummarizer("sum", fakeSummarizerTool{summary: "new summary"}, SlotPath{Name: "summary"}, 50, UpdateReplace, nil)
	resp, err := s.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, "new summary", resp.Writes[0].Value)
}

func TestConversationSummarizer_Execute_AppendPrependsExisting(t *testing.T) {
	ec := newTestExecCtx(t)
	require.NoError(t, ec.Store.Put(context.Background(), ec.ConversationKey(), "summary", "old summary"))

	s := NewConversationSummarizer("sum", fakeSummarizerTool{summary: "new summary"}, SlotPath{Name: "summary"}, 50, UpdateAppend, nil)
	resp, err := s.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, "old summary\nnew summary", resp.Writes[0].Value)
}

func TestConversationSummarizer_Execute_AppendWithNoExisting(t *testing.T) {
	ec := newTestExecCtx(t)
	s := NewConversationSummarizer("sum", fakeSummarizerTool{summary: "first summary"}, SlotPath{Name: "summary"}, 50, UpdateAppend, nil)
	resp, err := s.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, "first summary", resp.Writes[0].Value)
}

type fakeRetriever struct {
	docs map[string][]RetrievedDocument
}

func (f fakeRetriever) Retrieve(_ context.Context, documentSet, _ string, _ int) ([]RetrievedDocument, error) {
	return f.docs[documentSet], nil
}

func TestVectorDBExtractor_Execute_SearchesPrimaryOnly(t *testing.T) {
	ec := newTestExecCtx(t)
	require.NoError(t, ec.Store.Put(context.Background(), ec.ConversationKey(), "question", "how do I reset my password?"))

	retriever := fakeRetriever{docs: map[string][]RetrievedDocument{
		"faq":     {{Content: "reset steps"}},
		"runbook": {{Content: "should not be searched"}},
	}}
	querySlot, err := template.ParseSlotPath("question")
	require.NoError(t, err)

	v := NewVectorDBExtractor("search", retriever, querySlot, SlotPath{Name: "context"}, "faq", []string{"runbook"}, false, 0, nil)
	resp, err := v.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, "reset steps", resp.Writes[0].Value)
}

func TestVectorDBExtractor_Execute_SearchesSecondaryWhenEnabled(t *testing.T) {
	ec := newTestExecCtx(t)
	require.NoError(t, ec.Store.Put(context.Background(), ec.ConversationKey(), "question", "anything"))

	retriever := fakeRetriever{docs: map[string][]RetrievedDocument{
		"faq":     {{Content: "primary hit"}},
		"runbook": {{Content: "secondary hit"}},
	}}
	querySlot, err := template.ParseSlotPath("question")
	require.NoError(t, err)

	v := NewVectorDBExtractor("search", retriever, querySlot, SlotPath{Name: "context"}, "faq", []string{"runbook"}, true, 0, nil)
	resp, err := v.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, "primary hit\n---\nsecondary hit", resp.Writes[0].Value)
}

func TestVectorDBExtractor_Execute_FoldsProvenanceIntoValue(t *testing.T) {
	ec := newTestExecCtx(t)
	require.NoError(t, ec.Store.Put(context.Background(), ec.ConversationKey(), "question", "how do I reset my password?"))

	retriever := fakeRetriever{docs: map[string][]RetrievedDocument{
		"faq": {{Content: "reset steps", ProvenanceName: "Password FAQ", ProvenanceLink: "https://docs.example.com/faq#reset"}},
	}}
	querySlot, err := template.ParseSlotPath("question")
	require.NoError(t, err)

	v := NewVectorDBExtractor("search", retriever, querySlot, SlotPath{Name: "context"}, "faq", nil, false, 0, nil)
	resp, err := v.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, "reset steps\nSource: Password FAQ (https://docs.example.com/faq#reset)", resp.Writes[0].Value)
}

func TestVectorDBExtractor_Execute_MissingQuerySlotFails(t *testing.T) {
	ec := newTestExecCtx(t)
	querySlot, err := template.ParseSlotPath("question")
	require.NoError(t, err)

	v := NewVectorDBExtractor("search", fakeRetriever{}, querySlot, SlotPath{Name: "context"}, "faq", nil, false, 0, nil)
	_, err = v.Execute(context.Background(), ec)
	require.Error(t, err)
}
