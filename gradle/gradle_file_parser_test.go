package gradle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mapLookup(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestResolveExpression(t *testing.T) {
	lookup := mapLookup(map[string]string{"mod_version": "1.2.3", "mc": "1.16.5"})
	tests := []struct {
		raw      string
		expected string
		resolved bool
	}{
		{`'1.0.0'`, "1.0.0", true},
		{`'${mod_version}'`, "${mod_version}", true},
		{`"1.0.0"`, "1.0.0", true},
		{`"${mod_version}"`, "1.2.3", true},
		{`"$mod_version-mc$mc"`, "1.2.3-mc1.16.5", true},
		{`"${project.mod_version}"`, "1.2.3", true},
		{`mod_version`, "1.2.3", true},
		{`project.mod_version`, "1.2.3", true},
		{`rootProject.mod_version`, "1.2.3", true},
		{`property('mod_version')`, "1.2.3", true},
		{`project.findProperty("mod_version").toString()`, "1.2.3", true},
		{`  'padded'  `, "padded", true},
		{`"${missing}"`, "", false},
		{`missing`, "", false},
		{`calculateVersion()`, "", false},
		{`'a' + 'b'`, "", false},
	}
	for _, test := range tests {
		t.Run(test.raw, func(t *testing.T) {
			value, resolved := resolveExpression(test.raw, lookup)
			assert.Equal(t, test.resolved, resolved)
			if test.resolved {
				assert.Equal(t, test.expected, value)
			}
		})
	}
}

func TestExtractBlock(t *testing.T) {
	content := `buildscript {
    dependencies {
        classpath 'net.minecraftforge.gradle:ForgeGradle:4.1.+'
    }
}
def label = "dependencies { not a block }"
mydependencies {
    wrong 'block'
}
dependencies {
    minecraft 'net.minecraftforge:forge:1.16.5-36.1.0'
    implementation('x:y:1') { transitive = false }
}
`
	block := extractBlock(content, "dependencies")
	assert.Contains(t, block, "minecraft 'net.minecraftforge:forge:1.16.5-36.1.0'")
	assert.Contains(t, block, "transitive = false")
	assert.NotContains(t, block, "classpath")
	assert.NotContains(t, block, "wrong")

	assert.Empty(t, extractBlock(content, "repositories"))
	assert.Empty(t, extractBlock("dependencies {\n    minecraft 'a:b:c'\n", "dependencies"))
}

func TestFindTopLevelAssignment(t *testing.T) {
	content := "minecraft {\n    version = '1.16.5'\n}\nversion = '2.0.0';\ngroup 'com.example'\nversionName = 'x'\n"
	value, ok := findTopLevelAssignment(content, "version")
	assert.True(t, ok)
	assert.Equal(t, "'2.0.0'", value)

	value, ok = findTopLevelAssignment(content, "group")
	assert.True(t, ok)
	assert.Equal(t, "'com.example'", value)

	_, ok = findTopLevelAssignment(content, "description")
	assert.False(t, ok)
}

func TestStripComments(t *testing.T) {
	content := "a = 1 // trailing\n/* block\ncomment */b = 'http://example.com'\n// full line\nc = \"/* kept */\"\n"
	stripped := stripComments(content)
	assert.Equal(t, "a = 1 \n\nb = 'http://example.com'\n\nc = \"/* kept */\"\n", stripped)
}
