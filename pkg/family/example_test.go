package family_test

import (
	"fmt"

	"github.com/matzehuels/familytree/pkg/family"
)

func ExampleBuild() {
	rows := []family.Row{
		{"id": "1", "person_name": "Piero", "sex": "M", "marriage_1": "2"},
		{"id": "2", "person_name": "Pina", "sex": "F", "marriage_1": "1"},
		{"id": "3", "person_name": "Aurora", "sex": "F", "father_id": "1", "mother_id": "2"},
		{"id": "4", "person_name": "Armando", "sex": "M", "father_id": "1", "mother_id": "2"},
	}
	persons, err := family.ParseRecords(rows)
	if err != nil {
		fmt.Println(err)
		return
	}
	f, err := family.Build(persons)
	if err != nil {
		fmt.Println(err)
		return
	}

	aurora, _ := f.Person(3)
	fmt.Println("Father:", aurora.Parents().Father.Name)
	fmt.Println("Mother:", aurora.Parents().Mother.Name)
	fmt.Println("Siblings:", len(aurora.Siblings()))
	// Output:
	// Father: Piero
	// Mother: Pina
	// Siblings: 1
}

func ExampleResolver() {
	rows := []family.Row{
		{"id": "1", "person_name": "Adolfo", "sex": "M", "marriage_1": "2"},
		{"id": "2", "person_name": "Paola", "sex": "F", "marriage_1": "1", "marriage_2": "3"},
		{"id": "3", "person_name": "Umberto", "sex": "M", "marriage_1": "2"},
	}
	persons, _ := family.ParseRecords(rows)
	f, _ := family.Build(persons)

	r := family.NewResolver(f)
	for _, h := range r.Partition() {
		fmt.Println(h.Key, h.Kind(), len(h.Couples))
	}
	// Output:
	// node-1-2-3 multi-couple 2
}

func ExampleBuild_inconsistent() {
	rows := []family.Row{
		{"id": "1", "person_name": "Valentina", "sex": "F"},
		{"id": "2", "person_name": "Sofia", "sex": "F", "father_id": "1"},
	}
	persons, _ := family.ParseRecords(rows)
	_, err := family.Build(persons)
	fmt.Println(err)
	// Output:
	// inconsistent father (persons 2, 1): father 1 is recorded as female
}
