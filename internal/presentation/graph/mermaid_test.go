package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/domain"
)

func sampleNodes() []domain.NodeInfo {
	return []domain.NodeInfo{
		{Index: 0, ID: "selector#0", Kind: domain.KindSelector, Children: []int{1, 3}, Root: true},
		{Index: 1, ID: "inverter#1", Kind: domain.KindInverter, Children: []int{2}},
		{Index: 2, ID: "condition#2", Kind: domain.KindCondition, Name: `is "safe"`},
		{Index: 3, ID: "action#3", Kind: domain.KindAction, Name: "flee"},
	}
}

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(sampleNodes(), nil)

	contains := []string{
		"graph TD\n",
		`selector_0{"? selector"}`,
		`inverter_1[/"! inverter"/]`,
		`condition_2(["is 'safe'"])`,
		`action_3["flee"]`,
		`selector_0 -- "1" --> inverter_1`,
		`selector_0 -- "2" --> action_3`,
		"inverter_1 --> condition_2",
	}
	for _, c := range contains {
		if !strings.Contains(out, c) {
			t.Errorf("expected output to contain %q\n%s", c, out)
		}
	}
	if strings.Contains(out, "classDef") {
		t.Error("no overlay styles expected without an overlay")
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	overlay := &graph.Overlay{States: map[string]domain.NodeState{
		"selector#0": domain.Running,
		"action#3":   domain.Running,
		"inverter#1": domain.Failure,
	}}
	out := graph.GenerateMermaid(sampleNodes(), overlay)

	for _, c := range []string{
		"classDef running",
		"class selector_0 running;",
		"class inverter_1 failure;",
		"class action_3 running;",
	} {
		if !strings.Contains(out, c) {
			t.Errorf("expected output to contain %q\n%s", c, out)
		}
	}
	if strings.Contains(out, "class condition_2") {
		t.Error("nodes without a result must not be styled")
	}
}
