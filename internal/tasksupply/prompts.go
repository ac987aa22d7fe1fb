package tasksupply

import (
	"fmt"

	"github.com/vigil-labs/vigil/internal/synapse"
)

// promptFor builds the oracle prompt asking for a machine-extractable list
// for a queue key. Every prompt insists on a bare bracketed list so the
// extractor can validate the answer.
func promptFor(k queueKey, theme string) string {
	switch {
	case k.Category == synapse.CategoryText && k.Kind == KindThemes:
		return "Create a list of 50 unique and thought-provoking themes, each suitable for generating " +
			"meaningful text-based questions. Limit each theme to a maximum of four words. The themes should " +
			"be diverse and encompass a range of topics, including technology, philosophy, society, history, " +
			"science, and art. Format the themes as elements in a bracketed list of quoted strings, and " +
			"provide only the list without any additional text or explanations."
	case k.Category == synapse.CategoryText && k.Kind == KindQuestions:
		return fmt.Sprintf("Generate a list of 20 creative and thought-provoking questions, each related to "+
			"the theme '%s'. Ensure each question is concise, no more than 15 words, and tailored to evoke "+
			"in-depth exploration or discussion about '%s'. Format the output as elements in a bracketed "+
			"list of quoted strings, and include only the list without any additional explanations or text.", theme, theme)
	case k.Category == synapse.CategoryImage && k.Kind == KindThemes:
		return "Generate a list of 50 unique and broad creative themes for artistic inspiration. Each theme " +
			"should be no more than four words, open to interpretation, and suitable for various artistic " +
			"expressions. Present the list in a single-line bracketed list of quoted strings."
	case k.Category == synapse.CategoryImage && k.Kind == KindQuestions:
		return fmt.Sprintf("Provide a list of 20 creative and detailed scenarios for image generation, each "+
			"inspired by the theme '%s'. The scenarios should be diverse, encompassing elements such as "+
			"natural landscapes, historical settings, futuristic scenes, and imaginative contexts related to "+
			"'%s'. Each element in the list should be a concise but descriptive scenario, designed to inspire "+
			"visually rich images. Format these as elements in a bracketed list of quoted strings.", theme, theme)
	case k.Category == synapse.CategoryEmbeddings && k.Kind == KindThemes:
		return "Create a list of 50 unique subject areas suitable for generating short encyclopedic prose " +
			"passages. Limit each subject to a maximum of four words. Format the subjects as elements in a " +
			"bracketed list of quoted strings, and provide only the list."
	case k.Category == synapse.CategoryEmbeddings && k.Kind == KindQuestions:
		return fmt.Sprintf("Write a list of 20 self-contained prose passages of two to three sentences each, "+
			"all about '%s'. Each passage should read like an excerpt from an encyclopedia article. Format "+
			"the passages as elements in a bracketed list of quoted strings, and provide only the list.", theme)
	}
	return ""
}
