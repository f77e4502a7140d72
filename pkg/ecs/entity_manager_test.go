package ecs

import "testing"

// 测试组件类型定义
type testPositionComponent struct {
	X, Y float64
}

type testVelocityComponent struct {
	VX, VY float64
}

type testTagComponent struct{}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	// 测试实体ID唯一性
	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}

	// 测试ID从1开始
	if id1 != 1 {
		t.Errorf("First entity ID should be 1, got %d", id1)
	}
	if id2 != 2 {
		t.Errorf("Second entity ID should be 2, got %d", id2)
	}
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testPositionComponent{X: 100, Y: 200})

	pos, ok := GetComponent[*testPositionComponent](em, id)
	if !ok {
		t.Fatal("Component should be found")
	}
	if pos.X != 100 || pos.Y != 200 {
		t.Errorf("Component data mismatch, expected (100, 200), got (%f, %f)", pos.X, pos.Y)
	}

	// 修改指针组件后再次读取应看到新值
	pos.X = 150
	again, _ := GetComponent[*testPositionComponent](em, id)
	if again.X != 150 {
		t.Errorf("Expected shared pointer component, got X=%f", again.X)
	}
}

func TestGetComponent_Missing(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	if _, ok := GetComponent[*testPositionComponent](em, id); ok {
		t.Error("Component should not be found")
	}
	if _, ok := GetComponent[*testPositionComponent](em, 999); ok {
		t.Error("Component on unknown entity should not be found")
	}
}

func TestHasAndRemoveComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testTagComponent{})
	if !HasComponent[*testTagComponent](em, id) {
		t.Fatal("Entity should have tag component")
	}
	if HasComponent[*testVelocityComponent](em, id) {
		t.Error("Entity should not have velocity component")
	}

	RemoveComponent[*testTagComponent](em, id)
	if HasComponent[*testTagComponent](em, id) {
		t.Error("Tag component should be removed")
	}
}

func TestAddComponent_UnknownEntity(t *testing.T) {
	em := NewEntityManager()
	AddComponent(em, 42, &testTagComponent{})
	if em.Exists(42) {
		t.Error("AddComponent should not create entities")
	}
}

func TestDestroyEntity_Deferred(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testPositionComponent{})

	em.DestroyEntity(id)

	// 标记后仍然存在，直到清理
	if !em.Exists(id) {
		t.Error("Entity should exist until RemoveMarkedEntities")
	}

	em.RemoveMarkedEntities()
	if em.Exists(id) {
		t.Error("Entity should be removed after RemoveMarkedEntities")
	}
	if HasComponent[*testPositionComponent](em, id) {
		t.Error("Components of destroyed entity should be gone")
	}
	if em.Count() != 0 {
		t.Errorf("Expected 0 entities, got %d", em.Count())
	}
}

func TestGetEntitiesWith(t *testing.T) {
	em := NewEntityManager()

	e1 := em.CreateEntity()
	AddComponent(em, e1, &testPositionComponent{})
	AddComponent(em, e1, &testVelocityComponent{})

	e2 := em.CreateEntity()
	AddComponent(em, e2, &testPositionComponent{})

	e3 := em.CreateEntity()
	AddComponent(em, e3, &testPositionComponent{})
	AddComponent(em, e3, &testVelocityComponent{})
	AddComponent(em, e3, &testTagComponent{})

	tests := []struct {
		name     string
		query    func() []EntityID
		expected []EntityID
	}{
		{"position", func() []EntityID { return GetEntitiesWith1[*testPositionComponent](em) }, []EntityID{e1, e2, e3}},
		{"position+velocity", func() []EntityID {
			return GetEntitiesWith2[*testPositionComponent, *testVelocityComponent](em)
		}, []EntityID{e1, e3}},
		{"all three", func() []EntityID {
			return GetEntitiesWith3[*testPositionComponent, *testVelocityComponent, *testTagComponent](em)
		}, []EntityID{e3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.query()
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			// 结果按 ID 升序
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Expected %v, got %v", tt.expected, got)
					break
				}
			}
		})
	}
}
